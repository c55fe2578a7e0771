package deepface

// RepresentRequest for POST /represent
type RepresentRequest struct {
	Img              string `json:"img"`              // data URI, "data:image/jpeg;base64,..."
	ModelName        string `json:"model_name"`       // "Facenet512", "VGG-Face", etc
	DetectorBackend  string `json:"detector_backend"` // "retinaface", "mtcnn", "skip", etc
	EnforceDetection bool   `json:"enforce_detection"`
	Align            bool   `json:"align"`
}

// RepresentResponse from POST /represent
type RepresentResponse struct {
	Results []RepresentResult `json:"results"`
}

type RepresentResult struct {
	Embedding      []float64  `json:"embedding"`
	FacialArea     FacialArea `json:"facial_area"`
	FaceConfidence float64    `json:"face_confidence"`
}

type FacialArea struct {
	X        int   `json:"x"`
	Y        int   `json:"y"`
	W        int   `json:"w"`
	H        int   `json:"h"`
	LeftEye  []int `json:"left_eye,omitempty"`
	RightEye []int `json:"right_eye,omitempty"`
}

// ErrorResponse is the body DeepFace returns with 4xx/5xx statuses.
type ErrorResponse struct {
	Error     string `json:"error"`
	Exception string `json:"exception"`
}

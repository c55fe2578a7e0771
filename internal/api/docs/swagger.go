package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// BoundingBoxData is a face position in source image pixels
type BoundingBoxData struct {
	X1 int `json:"x1" example:"120"`
	Y1 int `json:"y1" example:"80"`
	X2 int `json:"x2" example:"260"`
	Y2 int `json:"y2" example:"240"`
}

// RegisterFaceResponse represents the response for a successful face registration
type RegisterFaceResponse struct {
	Name        string          `json:"name" example:"Maria Silva"`
	Embeddings  int             `json:"embeddings" example:"3"`
	BoundingBox BoundingBoxData `json:"bounding_box"`
	FacesFound  int             `json:"faces_found" example:"1"`
	Message     string          `json:"message" example:"Face for Maria Silva added successfully."`
}

// FaceResultData describes one face processed during attendance
type FaceResultData struct {
	BoundingBox BoundingBoxData `json:"bounding_box"`
	Name        string          `json:"name" example:"Maria Silva"`
	Distance    float64         `json:"distance" example:"0.21"`
	Extracted   bool            `json:"extracted" example:"true"`
}

// AttendanceResponse represents the response for attendance processing
type AttendanceResponse struct {
	RecognizedFaces []string         `json:"recognized_faces" example:"Maria Silva,João Souza"`
	Faces           []FaceResultData `json:"faces"`
	LatencyMs       int64            `json:"latency_ms" example:"180"`
}

// ResumeScoreResponse represents the response for resume scoring
type ResumeScoreResponse struct {
	ResumeSavedAt  string  `json:"resume_saved_at" example:"uploads/0b6f..._cv.docx"`
	JobDescSavedAt *string `json:"job_desc_saved_at" example:"uploads/5c1e..._jd.txt"`
	Score          float64 `json:"score" example:"66.67"`
}

// ChatRequest is the body of a mentor chat message
type ChatRequest struct {
	Text string `json:"text" example:"How should I prepare for a backend interview?"`
}

// ChatResponse is the mentor reply
type ChatResponse struct {
	Response string `json:"response" example:"Start by reviewing data structures..."`
}

// SkillsRequest asks for the skills of a job
type SkillsRequest struct {
	JobName string `json:"job_name" example:"data engineer"`
}

// SkillsResponse lists skills separated by commas
type SkillsResponse struct {
	Skills string `json:"skills" example:"SQL, Python, Spark, Airflow"`
}

// CareerRequest carries the user's skills and interests
type CareerRequest struct {
	Skills    []string `json:"skills" example:"python,sql"`
	Interests []string `json:"interests" example:"machine learning"`
}

// CareerResponse is a plaintext roadmap
type CareerResponse struct {
	Roadmap string `json:"roadmap" example:"1. Strengthen statistics fundamentals..."`
}

// HealthResponse represents the health and readiness responses
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version,omitempty" example:"0.1.0"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"INVALID_INPUT"`
	Message string `json:"message" example:"Invalid input"`
}

var (
	errBadRequest  = response.New(ErrorResponse{Code: "INVALID_INPUT", Message: "Invalid input"}, "400", "Bad Request")
	errRateLimited = response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded"}, "429", "Too Many Requests")
	errInternal    = response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error")
)

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Aspiro API",
		Version:     "v1.0.0",
		Description: "Face-recognition attendance, resume scoring and career mentoring API",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /v1/faces - Register Face
		endpoint.New(
			endpoint.POST,
			"/faces",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Register a face"),
			endpoint.WithDescription("Detects faces in the image and appends the embedding of the first one to the identity. Repeated registrations add more embeddings."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("name", parameter.Form, parameter.WithRequired(), parameter.WithDescription("Identity name, case sensitive")),
				parameter.FileParam("image", parameter.WithRequired(), parameter.WithDescription("JPEG, PNG, WebP, BMP, GIF or TIFF up to 10MB")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RegisterFaceResponse{}, "201", "Face registered successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				errBadRequest,
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "EXTRACTION_FAILED", Message: "Failed to extract face embedding"}, "422", "Unprocessable Entity"),
				errRateLimited,
				response.New(ErrorResponse{Code: "STORAGE_WRITE_ERROR", Message: "Failed to persist embeddings"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/attendance - Process Attendance
		endpoint.New(
			endpoint.POST,
			"/attendance",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Recognize every face in a photo"),
			endpoint.WithDescription("Matches each detected face against the gallery and returns the recognized names in detection order, duplicates included."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.FileParam("image", parameter.WithRequired(), parameter.WithDescription("Group photo")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AttendanceResponse{}, "200", "At least one face recognized"),
			}),
			endpoint.WithErrors([]response.Response{
				errBadRequest,
				response.New(ErrorResponse{Code: "NO_RECOGNIZED_FACES", Message: "No recognized faces found in the image"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in image"}, "422", "Unprocessable Entity"),
				errRateLimited,
				response.New(ErrorResponse{Code: "STORAGE_READ_ERROR", Message: "Failed to load embeddings"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/resumes/score - Score Resume
		endpoint.New(
			endpoint.POST,
			"/resumes/score",
			endpoint.WithTags("Resumes"),
			endpoint.WithSummary("Score a resume against a job description"),
			endpoint.WithDescription("Keyword overlap score in percent. Without a job description the default one is used."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.FileParam("resume", parameter.WithRequired(), parameter.WithDescription("PDF, DOCX or plain text resume")),
				parameter.FileParam("job_description", parameter.WithDescription("PDF, DOCX or plain text job description")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ResumeScoreResponse{}, "200", "Resume scored"),
			}),
			endpoint.WithErrors([]response.Response{
				errBadRequest,
				response.New(ErrorResponse{Code: "UNSUPPORTED_DOCUMENT", Message: "Unsupported document format"}, "415", "Unsupported Media Type"),
				errInternal,
			}),
		),

		// POST /v1/chat - Mentor Chat
		endpoint.New(
			endpoint.POST,
			"/chat",
			endpoint.WithTags("Advisor"),
			endpoint.WithSummary("Chat with the mentor"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody(ChatRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ChatResponse{}, "200", "Mentor reply"),
			}),
			endpoint.WithErrors(advisorErrors()),
		),

		// POST /v1/skills/recommend - Recommend Skills
		endpoint.New(
			endpoint.POST,
			"/skills/recommend",
			endpoint.WithTags("Advisor"),
			endpoint.WithSummary("Recommend skills for a job"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody(SkillsRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SkillsResponse{}, "200", "Comma-separated skills"),
			}),
			endpoint.WithErrors(append(advisorErrors(),
				response.New(ErrorResponse{Code: "NOT_FOUND", Message: "No skills found, please rephrase your request."}, "404", "Not Found"),
			)),
		),

		// POST /v1/career/guidance - Career Guidance
		endpoint.New(
			endpoint.POST,
			"/career/guidance",
			endpoint.WithTags("Advisor"),
			endpoint.WithSummary("Build a career roadmap"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody(CareerRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CareerResponse{}, "200", "Plaintext roadmap"),
			}),
			endpoint.WithErrors(append(advisorErrors(),
				response.New(ErrorResponse{Code: "NOT_FOUND", Message: "No roadmap found, please rephrase your request."}, "404", "Not Found"),
			)),
		),

		// GET /v1/ws - Attendance Feed
		endpoint.New(
			endpoint.GET,
			"/ws",
			endpoint.WithTags("Realtime"),
			endpoint.WithSummary("Attendance feed"),
			endpoint.WithDescription("WebSocket upgrade. Streams face.registered and attendance.recognized events."),
			endpoint.WithParams(
				parameter.StrParam("events", parameter.Query, parameter.WithDescription("Comma-separated event types to receive, all when omitted")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(struct{}{}, "101", "Switching Protocols"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "HTTP_ERROR", Message: "unknown event type \"face.deleted\""}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "HTTP_ERROR", Message: "Upgrade Required"}, "426", "Upgrade Required"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}

func advisorErrors() []response.Response {
	return []response.Response{
		errBadRequest,
		errRateLimited,
		response.New(ErrorResponse{Code: "LLM_UNAVAILABLE", Message: "Language model unavailable"}, "502", "Bad Gateway"),
	}
}

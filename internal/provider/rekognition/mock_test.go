package rekognition

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// fakeAPI answers DetectFaces with a canned result and records each input
type fakeAPI struct {
	faces  []types.FaceDetail
	err    error
	inputs []*rekognition.DetectFacesInput
}

func (f *fakeAPI) DetectFaces(_ context.Context, in *rekognition.DetectFacesInput, _ ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &rekognition.DetectFacesOutput{FaceDetails: f.faces}, nil
}

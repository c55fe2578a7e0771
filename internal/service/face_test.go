package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/omran-mahr/Aspiro-AI/internal/audit"
	"github.com/omran-mahr/Aspiro-AI/internal/domain"
	mockprovider "github.com/omran-mahr/Aspiro-AI/internal/provider/mock"
	"github.com/omran-mahr/Aspiro-AI/internal/store"
	"github.com/omran-mahr/Aspiro-AI/internal/ws"
)

type MockDetector struct {
	mock.Mock
}

func (m *MockDetector) DetectFaces(ctx context.Context, img image.Image) ([]domain.FaceRegion, error) {
	args := m.Called(ctx, img)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FaceRegion), args.Error(1)
}

func (m *MockDetector) Name() string {
	return "mock-detector"
}

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) ExtractEmbedding(ctx context.Context, face image.Image) (domain.Embedding, error) {
	args := m.Called(ctx, face)
	return args.Get(0).(domain.Embedding), args.Error(1)
}

func (m *MockExtractor) Name() string {
	return "mock-extractor"
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Load(ctx context.Context) (domain.Gallery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Gallery), args.Error(1)
}

func (m *MockStore) Save(ctx context.Context, gallery domain.Gallery) error {
	args := m.Called(ctx, gallery)
	return args.Error(0)
}

// MockAppenderStore is a store with a keyed append path
type MockAppenderStore struct {
	MockStore
}

func (m *MockAppenderStore) Append(ctx context.Context, name string, e domain.Embedding) (int, error) {
	args := m.Called(ctx, name, e)
	return args.Int(0), args.Error(1)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []ws.EventType
}

func (n *recordingNotifier) Broadcast(eventType ws.EventType, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, eventType)
}

type recordingAudit struct {
	events []audit.Event
}

func (a *recordingAudit) Log(_ context.Context, event audit.Event) error {
	a.events = append(a.events, event)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 3), G: uint8(y * 5), B: 120, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// region returns a face region whose crop has a distinct size, so mocks can
// tell regions apart by value.
func region(side int) domain.FaceRegion {
	return domain.FaceRegion{
		Image:      image.NewRGBA(image.Rect(0, 0, side, side)),
		Box:        domain.BoundingBox{X1: 0, Y1: 0, X2: side, Y2: side},
		Confidence: 0.99,
	}
}

func vec(v ...float64) domain.Embedding {
	return domain.Embedding{Vector: v}
}

func TestFaceService_Register(t *testing.T) {
	face := region(10)

	tests := []struct {
		name       string
		identity   string
		imageBytes func(t *testing.T) []byte
		setupMocks func(*MockDetector, *MockExtractor)
		wantErr    error
		wantSize   int
	}{
		{
			name:       "successful registration",
			identity:   "Ana",
			imageBytes: func(t *testing.T) []byte { return pngBytes(t, 40, 40) },
			setupMocks: func(d *MockDetector, e *MockExtractor) {
				d.On("DetectFaces", mock.Anything, mock.Anything).Return([]domain.FaceRegion{face}, nil)
				e.On("ExtractEmbedding", mock.Anything, face.Image).Return(vec(1, 0), nil)
			},
			wantSize: 1,
		},
		{
			name:       "blank name",
			identity:   "   ",
			imageBytes: func(t *testing.T) []byte { return pngBytes(t, 40, 40) },
			setupMocks: func(d *MockDetector, e *MockExtractor) {},
			wantErr:    domain.ErrInvalidInput,
		},
		{
			name:       "empty name",
			identity:   "",
			imageBytes: func(t *testing.T) []byte { return pngBytes(t, 40, 40) },
			setupMocks: func(d *MockDetector, e *MockExtractor) {},
			wantErr:    domain.ErrInvalidInput,
		},
		{
			name:       "undecodable image",
			identity:   "Ana",
			imageBytes: func(t *testing.T) []byte { return []byte("not an image") },
			setupMocks: func(d *MockDetector, e *MockExtractor) {},
			wantErr:    domain.ErrInvalidImage,
		},
		{
			name:       "no face detected",
			identity:   "Ana",
			imageBytes: func(t *testing.T) []byte { return pngBytes(t, 40, 40) },
			setupMocks: func(d *MockDetector, e *MockExtractor) {
				d.On("DetectFaces", mock.Anything, mock.Anything).Return([]domain.FaceRegion{}, nil)
			},
			wantErr: domain.ErrNoFaceDetected,
		},
		{
			name:       "detector failure reads as no face",
			identity:   "Ana",
			imageBytes: func(t *testing.T) []byte { return pngBytes(t, 40, 40) },
			setupMocks: func(d *MockDetector, e *MockExtractor) {
				d.On("DetectFaces", mock.Anything, mock.Anything).Return(nil, errors.New("model crashed"))
			},
			wantErr: domain.ErrNoFaceDetected,
		},
		{
			name:       "extraction failure",
			identity:   "Ana",
			imageBytes: func(t *testing.T) []byte { return pngBytes(t, 40, 40) },
			setupMocks: func(d *MockDetector, e *MockExtractor) {
				d.On("DetectFaces", mock.Anything, mock.Anything).Return([]domain.FaceRegion{face}, nil)
				e.On("ExtractEmbedding", mock.Anything, face.Image).Return(domain.Embedding{}, errors.New("timeout"))
			},
			wantErr: domain.ErrExtractionFailed,
		},
		{
			name:       "empty embedding counts as extraction failure",
			identity:   "Ana",
			imageBytes: func(t *testing.T) []byte { return pngBytes(t, 40, 40) },
			setupMocks: func(d *MockDetector, e *MockExtractor) {
				d.On("DetectFaces", mock.Anything, mock.Anything).Return([]domain.FaceRegion{face}, nil)
				e.On("ExtractEmbedding", mock.Anything, face.Image).Return(domain.Embedding{}, nil)
			},
			wantErr: domain.ErrExtractionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detector := &MockDetector{}
			extractor := &MockExtractor{}
			tt.setupMocks(detector, extractor)

			memStore := store.NewMemoryStore()
			svc := NewFaceService(detector, extractor, memStore, testLogger())

			reg, err := svc.Register(context.Background(), tt.identity, tt.imageBytes(t))

			gallery, loadErr := memStore.Load(context.Background())
			require.NoError(t, loadErr)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, reg)
				assert.Equal(t, 0, gallery.Size(), "store must be unchanged on failure")
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.identity, reg.Name)
				assert.Equal(t, 1, reg.Embeddings)
				assert.Equal(t, face.Box, reg.BoundingBox)
				assert.Equal(t, tt.wantSize, gallery.Size())
			}

			detector.AssertExpectations(t)
			extractor.AssertExpectations(t)
		})
	}
}

func TestFaceService_Register_EnrollsOnlyFirstFace(t *testing.T) {
	first, second := region(10), region(12)

	detector := &MockDetector{}
	detector.On("DetectFaces", mock.Anything, mock.Anything).Return([]domain.FaceRegion{first, second}, nil)
	extractor := &MockExtractor{}
	extractor.On("ExtractEmbedding", mock.Anything, first.Image).Return(vec(1, 0), nil).Once()

	memStore := store.NewMemoryStore()
	svc := NewFaceService(detector, extractor, memStore, testLogger())

	reg, err := svc.Register(context.Background(), "Ana", pngBytes(t, 40, 40))

	require.NoError(t, err)
	assert.Equal(t, 2, reg.FacesFound)
	extractor.AssertNotCalled(t, "ExtractEmbedding", mock.Anything, second.Image)
}

func TestFaceService_Register_AppendsRepeatedImages(t *testing.T) {
	face := region(10)
	detector := &MockDetector{}
	detector.On("DetectFaces", mock.Anything, mock.Anything).Return([]domain.FaceRegion{face}, nil)
	extractor := &MockExtractor{}
	extractor.On("ExtractEmbedding", mock.Anything, face.Image).Return(vec(0.3, 0.4), nil)

	memStore := store.NewMemoryStore()
	svc := NewFaceService(detector, extractor, memStore, testLogger())
	img := pngBytes(t, 40, 40)

	_, err := svc.Register(context.Background(), "Ana", img)
	require.NoError(t, err)
	reg, err := svc.Register(context.Background(), "Ana", img)
	require.NoError(t, err)

	assert.Equal(t, 2, reg.Embeddings)

	gallery, err := memStore.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, gallery["Ana"], 2)
	assert.Equal(t, gallery["Ana"][0].Vector, gallery["Ana"][1].Vector)
}

func TestFaceService_Register_NamesAreCaseSensitive(t *testing.T) {
	face := region(10)
	detector := &MockDetector{}
	detector.On("DetectFaces", mock.Anything, mock.Anything).Return([]domain.FaceRegion{face}, nil)
	extractor := &MockExtractor{}
	extractor.On("ExtractEmbedding", mock.Anything, face.Image).Return(vec(1, 0), nil)

	memStore := store.NewMemoryStore()
	svc := NewFaceService(detector, extractor, memStore, testLogger())

	for _, name := range []string{"Ana", "ana"} {
		_, err := svc.Register(context.Background(), name, pngBytes(t, 40, 40))
		require.NoError(t, err)
	}

	gallery, err := memStore.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "ana"}, gallery.Names())
}

func TestFaceService_Register_StorageErrors(t *testing.T) {
	face := region(10)

	tests := []struct {
		name       string
		setupStore func(*MockStore)
		wantErr    error
	}{
		{
			name: "load fails",
			setupStore: func(s *MockStore) {
				s.On("Load", mock.Anything).Return(nil, domain.ErrStorageRead.WithError(errors.New("corrupt")))
			},
			wantErr: domain.ErrStorageRead,
		},
		{
			name: "save fails",
			setupStore: func(s *MockStore) {
				s.On("Load", mock.Anything).Return(domain.Gallery{}, nil)
				s.On("Save", mock.Anything, mock.Anything).Return(domain.ErrStorageWrite.WithError(errors.New("disk full")))
			},
			wantErr: domain.ErrStorageWrite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detector := &MockDetector{}
			detector.On("DetectFaces", mock.Anything, mock.Anything).Return([]domain.FaceRegion{face}, nil)
			extractor := &MockExtractor{}
			extractor.On("ExtractEmbedding", mock.Anything, face.Image).Return(vec(1, 0), nil)
			mockStore := &MockStore{}
			tt.setupStore(mockStore)

			svc := NewFaceService(detector, extractor, mockStore, testLogger())
			_, err := svc.Register(context.Background(), "Ana", pngBytes(t, 40, 40))

			assert.ErrorIs(t, err, tt.wantErr)
			mockStore.AssertExpectations(t)
		})
	}
}

func TestFaceService_Register_UsesAppender(t *testing.T) {
	face := region(10)
	detector := &MockDetector{}
	detector.On("DetectFaces", mock.Anything, mock.Anything).Return([]domain.FaceRegion{face}, nil)
	extractor := &MockExtractor{}
	extractor.On("ExtractEmbedding", mock.Anything, face.Image).Return(vec(1, 0), nil)

	appender := &MockAppenderStore{}
	appender.On("Append", mock.Anything, "Ana", vec(1, 0)).Return(3, nil)

	svc := NewFaceService(detector, extractor, appender, testLogger())
	reg, err := svc.Register(context.Background(), "Ana", pngBytes(t, 40, 40))

	require.NoError(t, err)
	assert.Equal(t, 3, reg.Embeddings)
	appender.AssertNotCalled(t, "Load", mock.Anything)
	appender.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestFaceService_Register_ConcurrentWritersKeepAllEntries(t *testing.T) {
	provider := mockprovider.New()
	memStore := store.NewMemoryStore()
	svc := NewFaceService(provider, provider, memStore, testLogger())
	img := pngBytes(t, 64, 64)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := "Ana"
			if i%2 == 1 {
				name = "Ben"
			}
			_, err := svc.Register(context.Background(), name, img)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	gallery, err := memStore.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, writers, gallery.Size())
	assert.Len(t, gallery["Ana"], writers/2)
	assert.Len(t, gallery["Ben"], writers/2)
}

func TestFaceService_Register_NotifiesAndAudits(t *testing.T) {
	face := region(10)
	detector := &MockDetector{}
	detector.On("DetectFaces", mock.Anything, mock.Anything).Return([]domain.FaceRegion{face}, nil)
	extractor := &MockExtractor{}
	extractor.On("ExtractEmbedding", mock.Anything, face.Image).Return(vec(1, 0), nil)

	notifier, second := &recordingNotifier{}, &recordingNotifier{}
	auditLog := &recordingAudit{}
	svc := NewFaceService(detector, extractor, store.NewMemoryStore(), testLogger()).
		WithNotifier(notifier).
		WithNotifier(second).
		WithAuditLogger(auditLog)

	_, err := svc.Register(context.Background(), "Ana", pngBytes(t, 40, 40))
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "", pngBytes(t, 40, 40))
	require.Error(t, err)

	assert.Equal(t, []ws.EventType{ws.EventFaceRegistered}, notifier.events)
	assert.Equal(t, notifier.events, second.events)
	require.Len(t, auditLog.events, 2)
	assert.True(t, auditLog.events[0].Success)
	assert.Equal(t, "Ana", auditLog.events[0].Identity)
	assert.False(t, auditLog.events[1].Success)
	assert.Equal(t, "INVALID_INPUT", auditLog.events[1].Error)
}

func TestFaceService_Recognize(t *testing.T) {
	faceA, faceB := region(10), region(12)
	ben := vec(1, 0)
	// cosine distance 0.2 and 0.8 from ben
	near := vec(0.8, 0.6)
	far := vec(0.2, math.Sqrt(0.96))

	tests := []struct {
		name       string
		gallery    domain.Gallery
		imageBytes func(t *testing.T) []byte
		setupMocks func(*MockDetector, *MockExtractor)
		wantErr    error
		wantNames  []string
		wantFaces  []domain.FaceResult
	}{
		{
			name:       "empty store recognizes nobody",
			gallery:    domain.Gallery{},
			imageBytes: func(t *testing.T) []byte { return pngBytes(t, 40, 40) },
			setupMocks: func(d *MockDetector, e *MockExtractor) {
				d.On("DetectFaces", mock.Anything, mock.Anything).Return([]domain.FaceRegion{faceA}, nil)
				e.On("ExtractEmbedding", mock.Anything, faceA.Image).Return(near, nil)
			},
			wantErr: domain.ErrNoRecognizedFaces,
		},
		{
			name:       "image without faces",
			gallery:    domain.Gallery{"Ben": {ben}},
			imageBytes: func(t *testing.T) []byte { return pngBytes(t, 40, 40) },
			setupMocks: func(d *MockDetector, e *MockExtractor) {
				d.On("DetectFaces", mock.Anything, mock.Anything).Return([]domain.FaceRegion{}, nil)
			},
			wantErr: domain.ErrNoFaceDetected,
		},
		{
			name:       "undecodable image",
			gallery:    domain.Gallery{"Ben": {ben}},
			imageBytes: func(t *testing.T) []byte { return []byte{0xff, 0xd8, 0x00} },
			setupMocks: func(d *MockDetector, e *MockExtractor) {},
			wantErr:    domain.ErrInvalidImage,
		},
		{
			name:       "one known and one unknown face",
			gallery:    domain.Gallery{"Ben": {ben}},
			imageBytes: func(t *testing.T) []byte { return pngBytes(t, 40, 40) },
			setupMocks: func(d *MockDetector, e *MockExtractor) {
				d.On("DetectFaces", mock.Anything, mock.Anything).Return([]domain.FaceRegion{faceA, faceB}, nil)
				e.On("ExtractEmbedding", mock.Anything, faceA.Image).Return(near, nil)
				e.On("ExtractEmbedding", mock.Anything, faceB.Image).Return(far, nil)
			},
			wantNames: []string{"Ben"},
			wantFaces: []domain.FaceResult{
				{BoundingBox: faceA.Box, Name: "Ben", Distance: 0.2, Extracted: true},
				{BoundingBox: faceB.Box, Name: domain.Unknown, Distance: 1, Extracted: true},
			},
		},
		{
			name:       "same identity twice keeps duplicates",
			gallery:    domain.Gallery{"Ben": {ben}},
			imageBytes: func(t *testing.T) []byte { return pngBytes(t, 40, 40) },
			setupMocks: func(d *MockDetector, e *MockExtractor) {
				d.On("DetectFaces", mock.Anything, mock.Anything).Return([]domain.FaceRegion{faceA, faceB}, nil)
				e.On("ExtractEmbedding", mock.Anything, faceA.Image).Return(near, nil)
				e.On("ExtractEmbedding", mock.Anything, faceB.Image).Return(ben, nil)
			},
			wantNames: []string{"Ben", "Ben"},
		},
		{
			name:       "face without embedding is skipped",
			gallery:    domain.Gallery{"Ben": {ben}},
			imageBytes: func(t *testing.T) []byte { return pngBytes(t, 40, 40) },
			setupMocks: func(d *MockDetector, e *MockExtractor) {
				d.On("DetectFaces", mock.Anything, mock.Anything).Return([]domain.FaceRegion{faceA, faceB}, nil)
				e.On("ExtractEmbedding", mock.Anything, faceA.Image).Return(domain.Embedding{}, errors.New("boom"))
				e.On("ExtractEmbedding", mock.Anything, faceB.Image).Return(near, nil)
			},
			wantNames: []string{"Ben"},
			wantFaces: []domain.FaceResult{
				{BoundingBox: faceA.Box, Name: domain.Unknown, Distance: 1, Extracted: false},
				{BoundingBox: faceB.Box, Name: "Ben", Distance: 0.2, Extracted: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detector := &MockDetector{}
			extractor := &MockExtractor{}
			tt.setupMocks(detector, extractor)

			memStore := store.NewMemoryStore()
			require.NoError(t, memStore.Save(context.Background(), tt.gallery))
			svc := NewFaceService(detector, extractor, memStore, testLogger())

			result, err := svc.Recognize(context.Background(), tt.imageBytes(t))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantNames, result.Names)
			if tt.wantFaces != nil {
				require.Len(t, result.Faces, len(tt.wantFaces))
				for i, want := range tt.wantFaces {
					got := result.Faces[i]
					assert.Equal(t, want.BoundingBox, got.BoundingBox)
					assert.Equal(t, want.Name, got.Name)
					assert.Equal(t, want.Extracted, got.Extracted)
					if want.Name != domain.Unknown {
						assert.InDelta(t, want.Distance, got.Distance, 1e-9)
					}
				}
			}
		})
	}
}

func TestFaceService_Recognize_DoesNotLoadStoreWithoutFaces(t *testing.T) {
	detector := &MockDetector{}
	detector.On("DetectFaces", mock.Anything, mock.Anything).Return(nil, errors.New("detector offline"))
	mockStore := &MockStore{}

	svc := NewFaceService(detector, &MockExtractor{}, mockStore, testLogger())
	_, err := svc.Recognize(context.Background(), pngBytes(t, 40, 40))

	assert.ErrorIs(t, err, domain.ErrNoFaceDetected)
	mockStore.AssertNotCalled(t, "Load", mock.Anything)
}

func TestFaceService_Recognize_StorageReadError(t *testing.T) {
	face := region(10)
	detector := &MockDetector{}
	detector.On("DetectFaces", mock.Anything, mock.Anything).Return([]domain.FaceRegion{face}, nil)
	mockStore := &MockStore{}
	mockStore.On("Load", mock.Anything).Return(nil, domain.ErrStorageRead.WithError(errors.New("bad json")))

	svc := NewFaceService(detector, &MockExtractor{}, mockStore, testLogger())
	_, err := svc.Recognize(context.Background(), pngBytes(t, 40, 40))

	assert.ErrorIs(t, err, domain.ErrStorageRead)
}

func TestFaceService_Recognize_PropagatesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	detector := &MockDetector{}
	detector.On("DetectFaces", mock.Anything, mock.Anything).Return(nil, context.Canceled)

	svc := NewFaceService(detector, &MockExtractor{}, store.NewMemoryStore(), testLogger())
	_, err := svc.Recognize(ctx, pngBytes(t, 40, 40))

	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, domain.ErrRequestCanceled)
}

func TestFaceService_Register_CancellationIsClientError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	detector := &MockDetector{}
	detector.On("DetectFaces", mock.Anything, mock.Anything).Return(nil, context.Canceled)

	svc := NewFaceService(detector, &MockExtractor{}, store.NewMemoryStore(), testLogger())
	_, err := svc.Register(ctx, "ana", pngBytes(t, 40, 40))

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "REQUEST_CANCELED", appErr.Code)
	assert.Less(t, appErr.StatusCode, 500)
}

func TestFaceService_RegisterThenRecognize(t *testing.T) {
	face := region(10)
	ana1 := vec(0.9, 0.1, 0.4)
	ana2 := vec(0.85, 0.15, 0.45)

	detector := &MockDetector{}
	detector.On("DetectFaces", mock.Anything, mock.Anything).Return([]domain.FaceRegion{face}, nil)
	extractor := &MockExtractor{}
	extractor.On("ExtractEmbedding", mock.Anything, face.Image).Return(ana1, nil).Once()
	extractor.On("ExtractEmbedding", mock.Anything, face.Image).Return(ana2, nil).Once()

	notifier := &recordingNotifier{}
	svc := NewFaceService(detector, extractor, store.NewMemoryStore(), testLogger()).WithNotifier(notifier)

	_, err := svc.Register(context.Background(), "Ana", pngBytes(t, 40, 40))
	require.NoError(t, err)

	result, err := svc.Recognize(context.Background(), pngBytes(t, 40, 40))
	require.NoError(t, err)

	assert.Equal(t, []string{"Ana"}, result.Names)
	assert.GreaterOrEqual(t, result.LatencyMs, int64(0))
	assert.Equal(t, []ws.EventType{ws.EventFaceRegistered, ws.EventAttendanceRecognized}, notifier.events)
}

func TestFaceService_WithThreshold(t *testing.T) {
	face := region(10)
	detector := &MockDetector{}
	detector.On("DetectFaces", mock.Anything, mock.Anything).Return([]domain.FaceRegion{face}, nil)
	extractor := &MockExtractor{}
	extractor.On("ExtractEmbedding", mock.Anything, face.Image).Return(vec(0.8, 0.6), nil)

	memStore := store.NewMemoryStore()
	require.NoError(t, memStore.Save(context.Background(), domain.Gallery{"Ben": {vec(1, 0)}}))

	svc := NewFaceService(detector, extractor, memStore, testLogger()).WithThreshold(0.1)
	_, err := svc.Recognize(context.Background(), pngBytes(t, 40, 40))

	assert.ErrorIs(t, err, domain.ErrNoRecognizedFaces)
}

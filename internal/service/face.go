package service

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/omran-mahr/Aspiro-AI/internal/audit"
	"github.com/omran-mahr/Aspiro-AI/internal/domain"
	"github.com/omran-mahr/Aspiro-AI/internal/imaging"
	"github.com/omran-mahr/Aspiro-AI/internal/matcher"
	"github.com/omran-mahr/Aspiro-AI/internal/provider"
	"github.com/omran-mahr/Aspiro-AI/internal/store"
	"github.com/omran-mahr/Aspiro-AI/internal/ws"
)

// Notifier receives registration and attendance events (ws hub, webhook)
type Notifier interface {
	Broadcast(eventType ws.EventType, data interface{})
}

type FaceService struct {
	detector  provider.FaceDetector
	extractor provider.EmbeddingExtractor
	store     store.Store
	threshold float64
	logger    *slog.Logger
	audit     audit.Logger
	notifiers []Notifier

	// mu serialises load-modify-save for stores without Append
	mu sync.Mutex
}

func NewFaceService(
	detector provider.FaceDetector,
	extractor provider.EmbeddingExtractor,
	embeddingStore store.Store,
	logger *slog.Logger,
) *FaceService {
	return &FaceService{
		detector:  detector,
		extractor: extractor,
		store:     embeddingStore,
		threshold: matcher.DefaultThreshold,
		logger:    logger.With("component", "face_service"),
		audit:     &audit.NoOpLogger{},
	}
}

func (s *FaceService) WithThreshold(threshold float64) *FaceService {
	s.threshold = threshold
	return s
}

func (s *FaceService) WithAuditLogger(logger audit.Logger) *FaceService {
	s.audit = logger
	return s
}

// WithNotifier adds n to the notifiers that receive every event
func (s *FaceService) WithNotifier(n Notifier) *FaceService {
	s.notifiers = append(s.notifiers, n)
	return s
}

// Register cadastra o primeiro rosto encontrado na imagem sob name.
// O store só é alterado quando a extração do embedding tem sucesso.
func (s *FaceService) Register(ctx context.Context, name string, imageBytes []byte) (*domain.Registration, error) {
	reg, err := s.register(ctx, name, imageBytes)

	event := audit.Event{
		EventType: audit.EventFaceRegistered,
		Identity:  name,
		Provider:  s.extractor.Name(),
		Success:   err == nil,
	}
	if err != nil {
		event.Error = errorCode(err)
	} else {
		event.Metadata = map[string]string{
			"embeddings":  strconv.Itoa(reg.Embeddings),
			"faces_found": strconv.Itoa(reg.FacesFound),
		}
	}
	s.logAudit(ctx, event)

	if err != nil {
		return nil, err
	}

	s.notify(ws.EventFaceRegistered, reg)
	return reg, nil
}

func (s *FaceService) register(ctx context.Context, name string, imageBytes []byte) (*domain.Registration, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrInvalidInput.WithMessage("name is required")
	}

	faces, err := s.detectImage(ctx, imageBytes)
	if err != nil {
		return nil, err
	}

	// Only the first detected face is enrolled
	face := faces[0]
	embedding, ok := s.extract(ctx, face.Image)
	if !ok {
		if err := ctx.Err(); err != nil {
			return nil, domain.FromContext(err)
		}
		return nil, domain.ErrExtractionFailed
	}

	count, err := s.persist(ctx, name, embedding)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to persist embedding",
			slog.String("identity", name),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.InfoContext(ctx, "face registered",
		slog.String("identity", name),
		slog.Int("embeddings", count),
		slog.Int("faces_found", len(faces)),
	)

	return &domain.Registration{
		Name:        name,
		Embeddings:  count,
		BoundingBox: face.Box,
		FacesFound:  len(faces),
	}, nil
}

// Recognize identifica todos os rostos da imagem contra a galeria.
// Faces whose embedding cannot be extracted are reported but skipped.
func (s *FaceService) Recognize(ctx context.Context, imageBytes []byte) (*domain.Recognition, error) {
	start := time.Now()

	result, err := s.recognize(ctx, imageBytes)

	event := audit.Event{
		EventType: audit.EventAttendanceRecognized,
		Provider:  s.extractor.Name(),
		Success:   err == nil,
	}
	if err != nil {
		event.Error = errorCode(err)
	} else {
		event.Metadata = map[string]string{
			"faces_count":      strconv.Itoa(len(result.Faces)),
			"recognized_count": strconv.Itoa(len(result.Names)),
		}
	}
	s.logAudit(ctx, event)

	if err != nil {
		return nil, err
	}

	result.LatencyMs = time.Since(start).Milliseconds()

	s.notify(ws.EventAttendanceRecognized, result)
	return result, nil
}

func (s *FaceService) recognize(ctx context.Context, imageBytes []byte) (*domain.Recognition, error) {
	faces, err := s.detectImage(ctx, imageBytes)
	if err != nil {
		return nil, err
	}

	gallery, err := s.store.Load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load gallery", slog.String("error", err.Error()))
		return nil, err
	}

	result := &domain.Recognition{
		Names: []string{},
		Faces: make([]domain.FaceResult, 0, len(faces)),
	}

	for i, face := range faces {
		embedding, ok := s.extract(ctx, face.Image)
		if err := ctx.Err(); err != nil {
			return nil, domain.FromContext(err)
		}
		if !ok {
			s.logger.DebugContext(ctx, "skipping face without embedding", slog.Int("face", i))
			result.Faces = append(result.Faces, domain.FaceResult{
				BoundingBox: face.Box,
				Name:        domain.Unknown,
				Distance:    1,
			})
			continue
		}

		match := matcher.Match(embedding.Vector, gallery, s.threshold)
		result.Faces = append(result.Faces, domain.FaceResult{
			BoundingBox: face.Box,
			Name:        match.Name,
			Distance:    match.Distance,
			Extracted:   true,
		})
		if match.Known() {
			result.Names = append(result.Names, match.Name)
		}
	}

	if len(result.Names) == 0 {
		return nil, domain.ErrNoRecognizedFaces
	}
	return result, nil
}

// detectImage decodes and normalises the upload, then detects faces.
// An image without faces is domain.ErrNoFaceDetected.
func (s *FaceService) detectImage(ctx context.Context, imageBytes []byte) ([]domain.FaceRegion, error) {
	img, _, err := imaging.Decode(imageBytes)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	faces, err := s.detect(ctx, imaging.ToRGB(img))
	if err != nil {
		return nil, err
	}
	if len(faces) == 0 {
		return nil, domain.ErrNoFaceDetected
	}
	return faces, nil
}

// detect fails open: provider errors are logged and read as "no faces".
// Only cancellation of ctx is returned.
func (s *FaceService) detect(ctx context.Context, img image.Image) ([]domain.FaceRegion, error) {
	faces, err := s.detector.DetectFaces(ctx, img)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, domain.FromContext(ctxErr)
		}
		s.logger.WarnContext(ctx, "face detection failed",
			slog.String("detector", s.detector.Name()),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}

	valid := faces[:0:0]
	for _, f := range faces {
		if f.Image == nil || f.Image.Bounds().Empty() {
			continue
		}
		valid = append(valid, f)
	}
	return valid, nil
}

// extract fails open like detect; ok is false when no usable vector came back.
func (s *FaceService) extract(ctx context.Context, face image.Image) (domain.Embedding, bool) {
	embedding, err := s.extractor.ExtractEmbedding(ctx, face)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.WarnContext(ctx, "embedding extraction failed",
				slog.String("extractor", s.extractor.Name()),
				slog.String("error", err.Error()),
			)
		}
		return domain.Embedding{}, false
	}
	if len(embedding.Vector) == 0 {
		s.logger.WarnContext(ctx, "extractor returned an empty embedding",
			slog.String("extractor", s.extractor.Name()),
		)
		return domain.Embedding{}, false
	}
	return embedding, true
}

func (s *FaceService) persist(ctx context.Context, name string, embedding domain.Embedding) (int, error) {
	if appender, ok := s.store.(store.Appender); ok {
		return appender.Append(ctx, name, embedding)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	gallery, err := s.store.Load(ctx)
	if err != nil {
		return 0, err
	}

	count := gallery.Add(name, embedding)
	if err := s.store.Save(ctx, gallery); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *FaceService) notify(eventType ws.EventType, data interface{}) {
	for _, n := range s.notifiers {
		n.Broadcast(eventType, data)
	}
}

func (s *FaceService) logAudit(ctx context.Context, event audit.Event) {
	if err := s.audit.Log(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to write audit event", slog.String("error", err.Error()))
	}
}

// errorCode returns the AppError code of err, or its text for other errors.
func errorCode(err error) string {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return err.Error()
}

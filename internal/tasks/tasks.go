package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register decoder
	"image/jpeg"
	_ "image/png" // register decoder
	"time"

	"github.com/hibiken/asynq"
	"github.com/nfnt/resize"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sahil-lab/realEstate/internal/config"
	"github.com/sahil-lab/realEstate/internal/email"
	"github.com/sahil-lab/realEstate/internal/metrics"
	"github.com/sahil-lab/realEstate/internal/models"
	"github.com/sahil-lab/realEstate/internal/services"
	"github.com/sahil-lab/realEstate/internal/storage"
)

// TaskType defines the type of a background task.
const (
	TypeInquiryNotify = "inquiry:notify"
	TypeEmailDelivery = "email:deliver"
	TypeImageProcess  = "image:process"
)

// Queue names and their priorities.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueImages   = "images"
)

// --- Task Client (Enqueuing tasks) ---

func redisClientOpt(rdb *redis.Client) asynq.RedisClientOpt {
	opts := rdb.Options()
	return asynq.RedisClientOpt{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}
}

func NewClient(rdb *redis.Client) *asynq.Client {
	return asynq.NewClient(redisClientOpt(rdb))
}

// IAsynqClient is the part of *asynq.Client the enqueuer uses.
type IAsynqClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer turns domain events into queued tasks.
type Enqueuer struct {
	client IAsynqClient
}

func NewEnqueuer(client IAsynqClient) *Enqueuer {
	return &Enqueuer{client: client}
}

var _ services.ITaskEnqueuer = (*Enqueuer)(nil)

// InquiryTaskPayload identifies the inquiry admins should hear about.
type InquiryTaskPayload struct {
	InquiryID string `json:"inquiry_id"`
}

// EmailTaskPayload describes a templated email.
type EmailTaskPayload struct {
	To         string            `json:"to"`
	TemplateID string            `json:"template_id"`
	Locale     string            `json:"locale,omitempty"`
	Data       map[string]string `json:"data"`
}

// ImageTaskPayload points at an uploaded image awaiting normalization.
type ImageTaskPayload struct {
	S3Key     string `json:"s3_key"`
	ListingID string `json:"listing_id"`
}

func newTask(taskType string, payload interface{}) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, data), nil
}

func (e *Enqueuer) enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error {
	task, err := newTask(taskType, payload)
	if err != nil {
		return err
	}
	if _, err := e.client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			return nil
		}
		return fmt.Errorf("failed to enqueue %s task: %w", taskType, err)
	}
	return nil
}

func (e *Enqueuer) EnqueueInquiryNotification(ctx context.Context, inquiryID string) error {
	return e.enqueue(ctx, TypeInquiryNotify, InquiryTaskPayload{InquiryID: inquiryID},
		asynq.Queue(QueueCritical), asynq.MaxRetry(5))
}

func (e *Enqueuer) EnqueueImageProcessing(ctx context.Context, listingID, s3Key string) error {
	return e.enqueue(ctx, TypeImageProcess, ImageTaskPayload{S3Key: s3Key, ListingID: listingID},
		asynq.Queue(QueueImages), asynq.MaxRetry(3), asynq.Timeout(2*time.Minute))
}

// EnqueueEmail queues one email. A non-empty dedupeID makes repeated calls a no-op.
func (e *Enqueuer) EnqueueEmail(ctx context.Context, payload EmailTaskPayload, dedupeID string) error {
	opts := []asynq.Option{asynq.Queue(QueueDefault)}
	if dedupeID != "" {
		opts = append(opts, asynq.TaskID(dedupeID))
	}
	return e.enqueue(ctx, TypeEmailDelivery, payload, opts...)
}

// --- Task Server (Processing tasks) ---

// AdminDirectory finds the accounts that receive inquiry notifications.
type AdminDirectory interface {
	ListByRoles(ctx context.Context, roles ...models.Role) ([]models.Account, error)
}

// TaskProcessor handles the processing of tasks.
// It holds dependencies needed by task handlers.
type TaskProcessor struct {
	cfg                  *config.Config
	logger               *zap.Logger
	emailSender          email.Sender
	emailTemplateService services.IEmailTemplateService
	inquiryService       services.IInquiryService
	listingService       services.IListingService
	admins               AdminDirectory
	storageService       storage.IS3Storage
	enqueuer             *Enqueuer
}

func NewTaskProcessor(
	cfg *config.Config,
	logger *zap.Logger,
	emailSender email.Sender,
	emailTemplateService services.IEmailTemplateService,
	inquiryService services.IInquiryService,
	listingService services.IListingService,
	admins AdminDirectory,
	storageService storage.IS3Storage,
	enqueuer *Enqueuer,
) *TaskProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskProcessor{
		cfg:                  cfg,
		logger:               logger,
		emailSender:          emailSender,
		emailTemplateService: emailTemplateService,
		inquiryService:       inquiryService,
		listingService:       listingService,
		admins:               admins,
		storageService:       storageService,
		enqueuer:             enqueuer,
	}
}

// MetricsMiddleware counts processed tasks by type and outcome.
func MetricsMiddleware(m *metrics.Metrics) asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
			err := next.ProcessTask(ctx, t)
			outcome := "ok"
			switch {
			case errors.Is(err, asynq.SkipRetry):
				outcome = "skip"
			case err != nil:
				outcome = "retry"
			}
			m.RecordTask(t.Type(), outcome)
			return err
		})
	}
}

// NewServeMux registers the handlers for the requested worker roles.
func NewServeMux(processor *TaskProcessor, m *metrics.Metrics, isImageWorker, isBgWorker bool) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Use(MetricsMiddleware(m))
	if isBgWorker {
		mux.HandleFunc(TypeInquiryNotify, processor.HandleInquiryNotifyTask)
		mux.HandleFunc(TypeEmailDelivery, processor.HandleEmailDeliveryTask)
	}
	if isImageWorker {
		mux.HandleFunc(TypeImageProcess, processor.HandleImageProcessTask)
	}
	return mux
}

// SetupServer configures an Asynq server and its mux. It returns nil when
// neither worker role is requested.
func SetupServer(rdb *redis.Client, processor *TaskProcessor, logger *zap.Logger, m *metrics.Metrics, isImageWorker, isBgWorker bool) (*asynq.Server, *asynq.ServeMux) {
	if !isBgWorker && !isImageWorker {
		return nil, nil
	}

	queues := map[string]int{}
	if isBgWorker {
		queues[QueueCritical] = 6
		queues[QueueDefault] = 3
	}
	if isImageWorker {
		queues[QueueImages] = 5
	}

	srv := asynq.NewServer(
		redisClientOpt(rdb),
		asynq.Config{
			Queues: queues,
			Logger: logger.Sugar(),
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("Task failed",
					zap.String("type", task.Type()),
					zap.ByteString("payload", task.Payload()),
					zap.Error(err),
				)
			}),
		},
	)

	logger.Info("Registered task handlers",
		zap.Bool("background", isBgWorker),
		zap.Bool("images", isImageWorker),
	)
	return srv, NewServeMux(processor, m, isImageWorker, isBgWorker)
}

// --- Task Handlers ---

// HandleInquiryNotifyTask fans a new inquiry out into one email per admin.
func (p *TaskProcessor) HandleInquiryNotifyTask(ctx context.Context, t *asynq.Task) error {
	var payload InquiryTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal inquiry task payload: %v: %w", err, asynq.SkipRetry)
	}

	if !p.cfg.NotifyAdmins {
		p.logger.Debug("Admin notifications disabled", zap.String("inquiry_id", payload.InquiryID))
		return nil
	}

	inq, err := p.inquiryService.GetInquiry(ctx, payload.InquiryID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fmt.Errorf("inquiry %s not found: %w", payload.InquiryID, asynq.SkipRetry)
		}
		return err
	}

	propertyTitle := inq.PropertyID
	if listing, err := p.listingService.GetListing(ctx, inq.PropertyID); err == nil {
		propertyTitle = listing.Title
	} else {
		p.logger.Warn("Could not resolve inquiry property",
			zap.String("inquiry_id", inq.ID),
			zap.String("property_id", inq.PropertyID),
			zap.Error(err),
		)
	}

	admins, err := p.admins.ListByRoles(ctx, models.RoleAdmin, models.RoleSuperAdmin)
	if err != nil {
		return fmt.Errorf("failed to list admins: %w", err)
	}

	data := map[string]string{
		"app_name":       p.cfg.AppName,
		"property_id":    inq.PropertyID,
		"property_title": propertyTitle,
		"user_name":      inq.UserName,
		"user_email":     inq.UserEmail,
		"user_phone":     inq.UserPhone,
		"message":        inq.Message,
	}

	queued := 0
	for _, admin := range admins {
		if admin.Email == "" {
			continue
		}
		err := p.enqueuer.EnqueueEmail(ctx, EmailTaskPayload{
			To:         admin.Email,
			TemplateID: services.TemplateNewInquiry,
			Locale:     services.DefaultLocale,
			Data:       data,
		}, fmt.Sprintf("%s:%s:%s", TypeInquiryNotify, inq.ID, admin.UID))
		if err != nil {
			return err
		}
		queued++
	}

	p.logger.Info("Inquiry notification fanned out",
		zap.String("inquiry_id", inq.ID),
		zap.Int("emails", queued),
	)
	return nil
}

// HandleEmailDeliveryTask renders and sends one templated email.
func (p *TaskProcessor) HandleEmailDeliveryTask(ctx context.Context, t *asynq.Task) error {
	var payload EmailTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal email task payload: %v: %w", err, asynq.SkipRetry)
	}

	locale := payload.Locale
	if locale == "" {
		locale = services.DefaultLocale
	}

	tmpl, err := p.emailTemplateService.GetTemplate(ctx, payload.TemplateID, locale)
	if err != nil {
		p.logger.Error("Error getting email template",
			zap.String("template_id", payload.TemplateID),
			zap.String("locale", locale),
			zap.Error(err),
		)
		return fmt.Errorf("email template not found: %w", asynq.SkipRetry)
	}

	subject, body, err := email.Render(tmpl, payload.Data)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	fromAddress := p.cfg.SmtpFromAddress
	if fromAddress == "" {
		fromAddress = "noreply@example.com"
	}
	rawMessage := email.BuildMessage(fromAddress, []string{payload.To}, subject, body, payload.TemplateID, time.Now())

	if err := p.emailSender.Send(ctx, []string{payload.To}, subject, rawMessage); err != nil {
		return err
	}

	p.logger.Info("Email task processed",
		zap.String("to", payload.To),
		zap.String("template_id", payload.TemplateID),
	)
	return nil
}

// HandleImageProcessTask downscales an uploaded image when it exceeds the
// configured dimensions and attaches it to its listing.
func (p *TaskProcessor) HandleImageProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ImageTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal image task payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.storageService == nil {
		return fmt.Errorf("image storage not configured: %w", asynq.SkipRetry)
	}
	if !p.storageService.OwnsKey(payload.ListingID, payload.S3Key) {
		return fmt.Errorf("key %s does not belong to listing %s: %w", payload.S3Key, payload.ListingID, asynq.SkipRetry)
	}

	log := p.logger.With(zap.String("s3_key", payload.S3Key), zap.String("listing_id", payload.ListingID))

	imgData, contentType, err := p.storageService.GetObject(ctx, payload.S3Key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return fmt.Errorf("s3 object not found: %w", asynq.SkipRetry)
		}
		return fmt.Errorf("failed to download image from S3: %w", err)
	}

	maxSizeBytes := int64(p.cfg.ImageMaxSizeMB) * 1024 * 1024
	if int64(len(imgData)) > maxSizeBytes {
		return fmt.Errorf("image exceeds max size (%d > %d bytes): %w", len(imgData), maxSizeBytes, asynq.SkipRetry)
	}

	img, format, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		return fmt.Errorf("unsupported image format or corrupt image: %w", asynq.SkipRetry)
	}

	maxDim := uint(p.cfg.ImageMaxDimension)
	if uint(img.Bounds().Dx()) > maxDim || uint(img.Bounds().Dy()) > maxDim {
		resized := resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
			return fmt.Errorf("failed to re-encode resized image: %w", err)
		}
		if int64(buf.Len()) > maxSizeBytes {
			return fmt.Errorf("resized image still exceeds max size: %w", asynq.SkipRetry)
		}
		if err := p.storageService.PutObject(ctx, payload.S3Key, buf.Bytes(), "image/jpeg"); err != nil {
			return fmt.Errorf("failed to upload processed image: %w", err)
		}
		log.Info("Resized image",
			zap.String("format", format),
			zap.Int("width", resized.Bounds().Dx()),
			zap.Int("height", resized.Bounds().Dy()),
		)
	} else {
		log.Debug("Image within limits", zap.String("format", format), zap.String("content_type", contentType))
	}

	if err := p.listingService.AddImageToListing(ctx, payload.ListingID, p.storageService.PublicURL(payload.S3Key)); err != nil {
		if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrConflict) {
			return fmt.Errorf("listing %s not available: %v: %w", payload.ListingID, err, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to update listing with processed image: %w", err)
	}

	log.Info("Image task processed")
	return nil
}

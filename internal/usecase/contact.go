package usecase

import (
	"context"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/sanitize"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

const DefaultMaxMessageLength = 3000

// ContactOptions configures the contact pipeline. Zero values select defaults.
type ContactOptions struct {
	Sanitizer        *sanitize.Sanitizer
	Denylist         *validation.Denylist
	MaxMessageLength int
	// DevLog records accepted submissions; nil disables it
	DevLog         domain.SubmissionLogger
	SecurityLogger *security.SecurityLogger
}

type contactUsecase struct {
	notifier  domain.Notifier
	validate  *validator.Validate
	sanitizer *sanitize.Sanitizer
	denylist  *validation.Denylist
	maxLenTag string
	devLog    domain.SubmissionLogger
	secLog    *security.SecurityLogger
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(notifier domain.Notifier, validate *validator.Validate, opts ContactOptions) domain.ContactUsecase {
	if validate == nil {
		validate = validation.NewValidator()
	}
	if opts.Sanitizer == nil {
		opts.Sanitizer = sanitize.New(sanitize.ModeEscape)
	}
	if opts.Denylist == nil {
		opts.Denylist = validation.DefaultDenylist()
	}
	if opts.MaxMessageLength <= 0 {
		opts.MaxMessageLength = DefaultMaxMessageLength
	}
	if opts.SecurityLogger == nil {
		opts.SecurityLogger = security.DefaultLogger()
	}
	return &contactUsecase{
		notifier:  notifier,
		validate:  validate,
		sanitizer: opts.Sanitizer,
		denylist:  opts.Denylist,
		maxLenTag: validation.MaxLengthTag(opts.MaxMessageLength),
		devLog:    opts.DevLog,
		secLog:    opts.SecurityLogger,
	}
}

func (uc *contactUsecase) NotifierName() string {
	return uc.notifier.Name()
}

// SendContactMessage sanitizes and validates the request, then dispatches it once.
// Nothing is sent unless every rule passes.
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) error {
	requestID := domain.RequestIDFrom(ctx)

	sub := uc.sanitizeRequest(req)
	if appErr := uc.check(ctx, sub, requestID); appErr != nil {
		uc.secLog.LogValidationFailed(ctx, sub.Email, requestID, string(appErr.Kind))
		return appErr
	}

	// Development only, never blocks delivery
	if uc.devLog != nil {
		if err := uc.devLog.Append(sub); err != nil {
			logger.Log.Warn("Failed to write dev message log", "error", err, "request_id", requestID)
		}
	}

	if err := uc.notifier.Notify(ctx, domain.FormatNotification(sub)); err != nil {
		uc.secLog.LogDispatchFailed(ctx, sub.Email, requestID, uc.notifier.Name(), err)
		logger.Log.Error("Failed to deliver contact message",
			"notifier", uc.notifier.Name(),
			"error", err,
			"request_id", requestID,
		)
		return apperror.Dispatch(err)
	}

	logger.Log.Info("Contact message delivered",
		"notifier", uc.notifier.Name(),
		"from", security.MaskEmail(sub.Email),
		"request_id", requestID,
	)
	return nil
}

func (uc *contactUsecase) sanitizeRequest(req *domain.ContactRequest) domain.ContactSubmission {
	if req == nil {
		return domain.ContactSubmission{}
	}
	return domain.ContactSubmission{
		Name:    uc.sanitizer.Sanitize(req.Name),
		Email:   uc.sanitizer.Sanitize(req.Email),
		Message: uc.sanitizer.Sanitize(req.Message),
	}
}

// check applies the rules in order and stops at the first failure.
func (uc *contactUsecase) check(ctx context.Context, sub domain.ContactSubmission, requestID string) *apperror.AppError {
	for _, field := range []string{sub.Name, sub.Email, sub.Message} {
		if err := uc.validate.Var(field, validation.TagRequired); err != nil {
			return validation.Fail(apperror.KindMissingField)
		}
	}

	if err := uc.validate.Var(sub.Email, validation.TagContactEmail); err != nil {
		return validation.Fail(apperror.KindInvalidEmail)
	}

	if pattern, found := uc.denylist.Match(sub.Message); found {
		uc.secLog.LogSuspiciousInput(ctx, sub.Email, requestID, pattern)
		return validation.Fail(apperror.KindSuspiciousContent)
	}

	if err := uc.validate.Var(sub.Message, uc.maxLenTag); err != nil {
		return validation.Fail(apperror.KindMessageTooLong)
	}

	return nil
}

package services

import "context"

// ITaskEnqueuer schedules background work triggered by service operations.
type ITaskEnqueuer interface {
	EnqueueInquiryNotification(ctx context.Context, inquiryID string) error
	EnqueueImageProcessing(ctx context.Context, listingID, s3Key string) error
}

// Package loader materializes the lead and inquiry datasets at process start.
// Every loader degrades to empty datasets on failure; nothing here returns
// an error to the caller.
package loader

import (
	"context"

	apperrors "dealer-assistant/internal/common/errors"
	"dealer-assistant/internal/common/logger"
	"dealer-assistant/internal/models"
)

// Datasets is the raw output of a loader.
type Datasets struct {
	Leads     []models.Record
	Inquiries []models.Record
}

// Loader produces both datasets from one external source.
type Loader interface {
	Load(ctx context.Context) Datasets
}

// Dataset kinds, used in logs and metrics.
const (
	KindLeads     = "leads"
	KindInquiries = "inquiries"
)

func logLoadFailure(log logger.Logger, source, kind string, err error) {
	stdErr := apperrors.NewStoreLoadFailedError(source, err)
	log.Warn("dataset unavailable, continuing with empty set", map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"source":    source,
		"dataset":   kind,
		"details":   stdErr.Details,
	})
}

func logLoaded(log logger.Logger, source, kind string, n int) {
	log.Info("dataset loaded", map[string]interface{}{
		"source":  source,
		"dataset": kind,
		"records": n,
	})
}

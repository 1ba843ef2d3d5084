package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/librarease/assetvault/internal/config"
)

type ExportAssetsOption struct {
	Search   string
	Category string
	SortBy   string
	Email    string
}

type ExportAssetsJobPayload struct {
	Search   string `json:"search,omitempty"`
	Category string `json:"category,omitempty"`
	SortBy   string `json:"sort_by,omitempty"`
	Email    string `json:"email,omitempty"`
}

type ExportAssetsResult struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Size  int    `json:"size"`
	Count int    `json:"count"`
	URL   string `json:"url,omitempty"`
}

// ExportAssets enqueues a CSV export and returns the job id.
func (u Usecase) ExportAssets(ctx context.Context, opt ExportAssetsOption) (uuid.UUID, error) {
	if u.queue == nil {
		return uuid.Nil, ErrQueueUnavailable
	}

	b, err := json.Marshal(ExportAssetsJobPayload(opt))
	if err != nil {
		return uuid.Nil, err
	}

	jobID := uuid.New()
	if err := u.queue.EnqueueJob(ctx, jobID, config.TASK_TYPE_EXPORT_ASSETS, b); err != nil {
		return uuid.Nil, err
	}
	return jobID, nil
}

func (u Usecase) GetJob(ctx context.Context, id uuid.UUID) (Job, error) {
	if u.queue == nil {
		return Job{}, ErrQueueUnavailable
	}
	return u.queue.GetJob(ctx, id)
}

// ProcessExportAssetsJob runs in the worker. The returned bytes are the
// JSON encoded ExportAssetsResult.
func (u Usecase) ProcessExportAssetsJob(ctx context.Context, jobID uuid.UUID, payload []byte) ([]byte, error) {
	if u.fileStorageProvider == nil {
		return nil, ErrStorageUnavailable
	}

	var p ExportAssetsJobPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to parse job payload: %w", err)
	}

	// 1. Query assets with the same options as the list endpoint
	list, err := u.ListAssets(ctx, ListAssetsOption{
		Search:   p.Search,
		Category: p.Category,
		SortBy:   p.SortBy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	// 2. Generate CSV file
	csvData, err := GenerateAssetsCSV(list)
	if err != nil {
		return nil, fmt.Errorf("failed to generate csv: %w", err)
	}

	// 3. Upload to file storage
	fileName := fmt.Sprintf("assets-export-%s.csv", time.Now().Format("20060102-150405"))
	path := "exports/" + jobID.String() + "/" + fileName

	if err := u.fileStorageProvider.UploadFile(ctx, path, csvData, "text/csv"); err != nil {
		return nil, fmt.Errorf("failed to upload export file: %w", err)
	}

	res := ExportAssetsResult{
		Path:  path,
		Name:  fileName,
		Size:  len(csvData),
		Count: len(list),
	}
	if url, err := u.fileStorageProvider.GetPresignedURL(ctx, path); err == nil {
		res.URL = url
	} else {
		u.logger.WarnContext(ctx, "presign export", slog.String("path", path), slog.String("err", err.Error()))
	}

	// 4. Notify by email
	if p.Email != "" && u.mailer != nil {
		if err := u.sendExportEmail(ctx, p.Email, res, csvData); err != nil {
			u.logger.WarnContext(ctx, "send export email",
				slog.String("job_id", jobID.String()),
				slog.String("err", err.Error()),
			)
		}
	}

	return json.Marshal(res)
}

func (u Usecase) sendExportEmail(ctx context.Context, to string, res ExportAssetsResult, csvData []byte) error {
	body, err := buildExportEmailBody(res.Name, res.URL, res.Count)
	if err != nil {
		return err
	}

	from := u.mailFrom
	if from == "" {
		from = "no-reply@assetvault.local"
	}

	return u.mailer.SendEmail(ctx, Email{
		To:      []string{to},
		From:    from,
		Subject: "Asset Export Ready",
		Body:    body,
		Attachments: []EmailAttachment{{
			Name:        res.Name,
			ContentType: "text/csv",
			Content:     csvData,
		}},
	})
}

const csvTimeLayout = "2006-01-02 15:04"

func GenerateAssetsCSV(list []Asset) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Name", "Category", "Estimated Value", "Confidence", "Purchase Date", "Notes", "Created At"}); err != nil {
		return nil, err
	}

	for _, a := range list {
		var purchaseDate, notes string
		if a.PurchaseDate != nil {
			purchaseDate = *a.PurchaseDate
		}
		if a.Notes != nil {
			notes = *a.Notes
		}
		if err := writer.Write([]string{
			strconv.Itoa(a.ID),
			a.Name,
			a.Category,
			strconv.Itoa(a.EstimatedValue),
			strconv.Itoa(a.Confidence),
			purchaseDate,
			notes,
			a.CreatedAt.UTC().Format(csvTimeLayout),
		}); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	return buf.Bytes(), writer.Error()
}

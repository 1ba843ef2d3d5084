package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

func New(
	repo Repository,
	fileStorageProvider FileStorageProvider,
	mailer Mailer,
	broker Broker,
	queue Queue,
	opts ...Option,
) Usecase {
	u := Usecase{
		repo:                repo,
		fileStorageProvider: fileStorageProvider,
		mailer:              mailer,
		broker:              broker,
		queue:               queue,
		logger:              slog.Default(),
	}
	for _, opt := range opts {
		opt(&u)
	}
	return u
}

type Option func(*Usecase)

func WithLogger(l *slog.Logger) Option {
	return func(u *Usecase) {
		u.logger = l
	}
}

// WithPublicBaseURL sets the URL that asset labels point to.
func WithPublicBaseURL(url string) Option {
	return func(u *Usecase) {
		u.publicBaseURL = url
	}
}

// WithMailFrom sets the sender of export notifications.
func WithMailFrom(from string) Option {
	return func(u *Usecase) {
		u.mailFrom = from
	}
}

type Repository interface {
	Health() map[string]string
	Close() error

	ListAssets(context.Context) ([]Asset, error)
	GetAssetByID(context.Context, int) (Asset, error)
	CreateAsset(context.Context, Asset) (Asset, error)
	UpdateAsset(context.Context, int, AssetPatch) (Asset, error)
	DeleteAsset(context.Context, int) (bool, error)
	SearchAssets(context.Context, string) ([]Asset, error)
	ListAssetsByCategory(context.Context, string) ([]Asset, error)
}

type FileStorageProvider interface {
	UploadFile(ctx context.Context, path string, data []byte, contentType string) error
	GetPublicURL(context.Context) (string, error)
	GetPresignedURL(ctx context.Context, path string) (string, error)
}

type Mailer interface {
	SendEmail(context.Context, Email) error
}

type Broker interface {
	Publish(context.Context, AssetEvent) error
	Subscribe(context.Context) (<-chan AssetEvent, func(), error)
}

type Queue interface {
	EnqueueJob(ctx context.Context, jobID uuid.UUID, jobType string, payload []byte) error
	GetJob(ctx context.Context, jobID uuid.UUID) (Job, error)
}

// Usecase holds the optional providers as nil interfaces when they are not
// configured; each method checks what it needs.
type Usecase struct {
	repo                Repository
	fileStorageProvider FileStorageProvider
	mailer              Mailer
	broker              Broker
	queue               Queue
	logger              *slog.Logger

	publicBaseURL string
	mailFrom      string
}

func (u Usecase) Health() map[string]string {
	return u.repo.Health()
}

func (u Usecase) Close() error {
	return u.repo.Close()
}

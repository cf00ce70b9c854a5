// Package app wires the service's dependencies and routes.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/jun/drivebox/internal/adapter"
	"github.com/jun/drivebox/internal/adapter/googledrive"
	"github.com/jun/drivebox/internal/adapter/memory"
	"github.com/jun/drivebox/internal/auth"
	"github.com/jun/drivebox/internal/crypto"
	"github.com/jun/drivebox/internal/folder"
	"github.com/jun/drivebox/internal/handler"
	"github.com/jun/drivebox/internal/secret"
	"github.com/jun/drivebox/internal/session"
)

// App holds the wired HTTP surface.
type App struct {
	mux *http.ServeMux
}

// New initializes the application. It fails (rather than serving traffic)
// when the Google client credentials cannot be resolved.
func New(ctx context.Context) (*App, error) {
	devMode := os.Getenv("DEV_MODE") == "true"

	var awsCfg aws.Config
	var resolver secret.Resolver
	if devMode {
		resolver = secret.NewEnvResolver()
		slog.Info("using EnvResolver (DEV_MODE=true)")
	} else {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to load AWS config: %w", err)
		}
		awsCfg = cfg
		resolver = secret.NewSSMResolver(ssm.NewFromConfig(cfg))
		slog.Info("using SSMResolver (SSM Parameter Store)")
	}

	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	if clientID == "" {
		return nil, fmt.Errorf("GOOGLE_CLIENT_ID is not set")
	}

	clientSecretParam := os.Getenv("GOOGLE_CLIENT_SECRET_PARAM")
	if clientSecretParam == "" {
		clientSecretParam = "/drivebox/google-client-secret"
	}
	clientSecret, err := resolver.GetSecret(ctx, clientSecretParam)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Google client secret: %w", err)
	}

	redirectURL := os.Getenv("GOOGLE_REDIRECT_URL")
	if redirectURL == "" {
		redirectURL = "http://localhost:8080/oauth/callback"
	}

	oauthConfig := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/drive",
			"https://www.googleapis.com/auth/userinfo.profile",
			"https://www.googleapis.com/auth/userinfo.email",
		},
		Endpoint: google.Endpoint,
	}
	authService := auth.NewService(oauthConfig)

	var store session.Store
	var storageProvider adapter.StorageProvider
	if devMode {
		store = session.NewMemoryStore()
		storageProvider = memory.NewProvider()
		slog.Info("using in-memory session store and storage fake (DEV_MODE=true)")
	} else {
		kmsKeyID := os.Getenv("KMS_KEY_ID")
		if kmsKeyID == "" {
			kmsKeyID = "alias/drivebox-session-key"
		}
		encryptor := crypto.NewKMSService(kms.NewFromConfig(awsCfg), kmsKeyID)

		sessionsTable := os.Getenv("SESSIONS_TABLE")
		if sessionsTable == "" {
			sessionsTable = "DriveboxSessions"
		}
		store = session.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), sessionsTable, encryptor)
		storageProvider = googledrive.NewProvider(authService)
	}

	provisioner := folder.NewProvisioner(store)
	authHandler := handler.NewAuthHandler(authService, store, devMode)
	fileHandler := handler.NewFileHandler(store, storageProvider, provisioner)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/begin", authHandler.Begin)
	mux.HandleFunc("GET /oauth/callback", authHandler.Callback)
	mux.HandleFunc("POST /auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /user", authHandler.GetUser)
	mux.HandleFunc("POST /files", fileHandler.Upload)
	mux.HandleFunc("GET /files", fileHandler.List)
	mux.HandleFunc("PUT /files/{id}", fileHandler.Rename)
	mux.HandleFunc("DELETE /files/{id}", fileHandler.Delete)
	mux.HandleFunc("GET /files/{id}/content", fileHandler.Download)

	return &App{mux: mux}, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.mux
}

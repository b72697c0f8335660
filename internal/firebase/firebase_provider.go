package firebase

import (
	"context"
	"log"
	"os"

	"github.com/assetdesk/assetdesk/internal/config"
	"github.com/assetdesk/assetdesk/internal/usecase"

	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	_ "github.com/joho/godotenv/autoload"
	"google.golang.org/api/option"
)

var path = os.Getenv(config.ENV_KEY_FIREBASE_SERVICE_ACCOUNT_KEY_PATH)

func New() *Firebase {
	ctx := context.Background()
	sa := option.WithCredentialsFile(path)
	app, err := fb.NewApp(ctx, nil, sa)
	if err != nil {
		log.Fatalf("error initializing app: %v\n", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("error getting Auth client: %v\n", err)
	}

	return &Firebase{auth: client}
}

type Firebase struct {
	auth *auth.Client
}

func (f *Firebase) CreateUser(ctx context.Context, ru usecase.RegisterUser) (string, error) {
	u := &auth.UserToCreate{}
	u.Email(ru.Email)
	u.EmailVerified(false)
	u.Password(ru.Password)
	u.DisplayName(ru.Name)
	u.Disabled(false)

	user, err := f.auth.CreateUser(ctx, u)
	if err != nil {
		return "", err
	}

	return user.UID, nil
}

// used by middleware
func (f *Firebase) VerifyIDToken(ctx context.Context, token string) (string, error) {
	t, err := f.auth.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}
	return t.UID, nil
}

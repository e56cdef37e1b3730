package connection

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"firebase.google.com/go/auth"
	"google.golang.org/api/option"
)

type Firebase struct {
	App       *firebase.App
	Firestore *firestore.Client
	Auth      *auth.Client
}

// FBConnection initialises the Firebase app from a service account file.
// The Auth client is only created when withAuth is set.
func FBConnection(ctx context.Context, credentialsPath string, withAuth bool) (*Firebase, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("environment variable GOOGLE_APPLICATION_CREDENTIALS_1 is not set")
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Firestore client: %w", err)
	}

	fb := &Firebase{App: app, Firestore: client}
	if withAuth {
		if fb.Auth, err = app.Auth(ctx); err != nil {
			client.Close()
			return nil, fmt.Errorf("error getting Auth client: %w", err)
		}
	}
	return fb, nil
}

func (f *Firebase) Close() error {
	return f.Firestore.Close()
}

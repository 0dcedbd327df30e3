package mongo

import (
	"context"

	"peakform/fitness-content/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

// sessionTxRunner implements repository.TxRunner on top of MongoDB
// sessions. The session context it hands to fn binds every repository call
// made with it to the same multi-document transaction, so clone writes
// staged by the resolver and the final graph write commit or roll back as
// one unit.
type sessionTxRunner struct {
	client *mongo.Client
}

// NewTxRunner creates a TxRunner backed by MongoDB multi-document
// transactions. Requires a replica-set deployment.
func NewTxRunner(client *mongo.Client) repository.TxRunner {
	return &sessionTxRunner{client: client}
}

func (r *sessionTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

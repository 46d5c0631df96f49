package search

import (
	"context"

	"github.com/pvondra/filmoteka/pkg/webshare"
)

//go:generate mockgen -source=gateway.go -destination=mocks/gateway_mock.go -package=mocks

// Gateway abstracts the remote search index. The production implementation
// is *webshare.Client; tests substitute a mock.
type Gateway interface {
	Search(ctx context.Context, query string, maxResults int) ([]webshare.File, error)
}

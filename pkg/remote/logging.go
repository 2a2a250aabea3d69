package remote

import (
	"context"

	"go.uber.org/zap"

	"github.com/realtyproxy/realtyproxy/pkg/api"
	"github.com/realtyproxy/realtyproxy/pkg/listing"
	"github.com/realtyproxy/realtyproxy/pkg/review"
)

var _ api.Server = &ErrorLoggingServer{}

type ErrorLoggingServer struct {
	server api.Server
	logger *zap.Logger
}

func NewErrorLoggingServer(s api.Server, l *zap.Logger) *ErrorLoggingServer {
	return &ErrorLoggingServer{s, l}
}

func (p *ErrorLoggingServer) ListListings(ctx context.Context) (_ []listing.Listing, err error) {
	defer func() {
		if err != nil {
			p.logger.Error("request error", zap.String("method", "ListListings"), zap.NamedError("err", err))
		}
	}()
	return p.server.ListListings(ctx)
}

func (p *ErrorLoggingServer) ListReviews(ctx context.Context) (_ []review.Review, err error) {
	defer func() {
		if err != nil {
			p.logger.Error("request error", zap.String("method", "ListReviews"), zap.NamedError("err", err))
		}
	}()
	return p.server.ListReviews(ctx)
}

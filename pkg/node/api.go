package node

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JimmyToluene/cs528-hw2-pagerank/pkg/wire"
)

type RankerServerImpl struct {
	Node *Node
}

func (s *RankerServerImpl) Rank(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := wire.DecodeRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp, err := s.Node.Rank(ctx, req)
	if err != nil {
		if IsInvalid(err) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		if errors.Is(err, context.Canceled) {
			return nil, status.Error(codes.Canceled, err.Error())
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, status.Error(codes.DeadlineExceeded, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	return wire.EncodeResponse(resp), nil
}

// NewHTTPServer exposes the node as a JSON API:
//
//	POST /rank   wire.Request -> wire.Response
//	GET  /health node id, role and completed jobs
func NewHTTPServer(n *Node) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"id":     n.Id,
			"role":   RoleToString(n.Role),
			"jobs":   n.Jobs.Load(),
			"cached": n.Cache.Len(),
		})
	})

	e.POST("/rank", func(c echo.Context) error {
		var req wire.Request
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if req.Graph == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "graph is required")
		}
		resp, err := n.Rank(c.Request().Context(), req)
		if err != nil {
			if IsInvalid(err) {
				return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, resp)
	})

	return e
}

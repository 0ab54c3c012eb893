package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/simaogato/sendflow/internal/domain"
	"github.com/simaogato/sendflow/internal/usecase/flow"
	"github.com/simaogato/sendflow/internal/usecase/session"
)

// Server implements the FlowService gRPC server
type Server struct {
	SessionService *session.SessionService
	now            func() time.Time
}

// NewServer creates a new gRPC server instance
func NewServer(sessionService *session.SessionService) *Server {
	return &Server{
		SessionService: sessionService,
		now:            time.Now,
	}
}

type sessionRequest struct {
	SessionID string           `json:"session_id"`
	Action    *flow.WireAction `json:"action,omitempty"`
	Query     string           `json:"query,omitempty"`
}

// OpenSession handles the OpenSession RPC. The request is a host config;
// unset fields fall back to server defaults.
func (s *Server) OpenSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var host session.OpenRequest
	if err := fromStruct(req, &host); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid host config: %v", err)
	}

	sess, err := s.SessionService.Open(ctx, host)
	if err != nil {
		return nil, mapError(err)
	}
	return s.sessionResponse(sess)
}

// GetView handles the GetView RPC
func (s *Server) GetView(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, _, err := parseSessionRequest(req)
	if err != nil {
		return nil, err
	}

	sess, err := s.SessionService.View(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return s.sessionResponse(sess)
}

// Dispatch handles the Dispatch RPC
func (s *Server) Dispatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, r, err := parseSessionRequest(req)
	if err != nil {
		return nil, err
	}
	if r.Action == nil {
		return nil, status.Error(codes.InvalidArgument, "action is required")
	}

	action, err := r.Action.Decode()
	if err != nil {
		return nil, mapError(err)
	}

	sess, err := s.SessionService.Dispatch(ctx, id, action)
	if err != nil {
		return nil, mapError(err)
	}
	return s.sessionResponse(sess)
}

// ResetSession handles the ResetSession RPC
func (s *Server) ResetSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, _, err := parseSessionRequest(req)
	if err != nil {
		return nil, err
	}

	sess, err := s.SessionService.Reset(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return s.sessionResponse(sess)
}

// CloseSession handles the CloseSession RPC
func (s *Server) CloseSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, _, err := parseSessionRequest(req)
	if err != nil {
		return nil, err
	}

	if err := s.SessionService.Close(ctx, id); err != nil {
		return nil, mapError(err)
	}
	return toStruct(map[string]any{"session_id": id.String(), "closed": true})
}

// SearchRecipients handles the SearchRecipients RPC
func (s *Server) SearchRecipients(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, r, err := parseSessionRequest(req)
	if err != nil {
		return nil, err
	}

	parties, err := s.SessionService.Recipients(ctx, id, r.Query)
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(map[string]any{"recipients": parties})
}

// ListCatalog handles the ListCatalog RPC
func (s *Server) ListCatalog(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	cat, err := s.SessionService.Catalog(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(map[string]any{"catalog": cat})
}

func (s *Server) sessionResponse(sess session.Session) (*structpb.Struct, error) {
	ts, err := protojson.Marshal(timestamppb.New(s.now()))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode timestamp: %v", err)
	}
	return toStruct(map[string]any{
		"session_id": sess.ID.String(),
		"view":       sess.View,
		"updated_at": strings.Trim(string(ts), `"`),
	})
}

func parseSessionRequest(req *structpb.Struct) (uuid.UUID, sessionRequest, error) {
	var r sessionRequest
	if err := fromStruct(req, &r); err != nil {
		return uuid.Nil, r, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	id, err := uuid.Parse(r.SessionID)
	if err != nil {
		return uuid.Nil, r, status.Errorf(codes.InvalidArgument, "invalid session_id format: %v", err)
	}
	return id, r, nil
}

// toStruct converts any JSON-encodable value into a Struct
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// fromStruct decodes a Struct into a JSON-tagged value
func fromStruct(s *structpb.Struct, dst any) error {
	if s == nil {
		return nil
	}
	data, err := protojson.Marshal(s)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

// mapError maps domain errors to gRPC status codes
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return status.Errorf(codes.NotFound, "%s", err.Error())
	case errors.Is(err, domain.ErrPartyNotFound),
		errors.Is(err, domain.ErrMethodNotFound),
		errors.Is(err, domain.ErrUnknownAction),
		errors.Is(err, domain.ErrInvalidHost),
		errors.Is(err, domain.ErrInvalidCatalog):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err.Error())
}

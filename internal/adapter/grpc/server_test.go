package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/sendflow/internal/adapter/repository/memory"
	"github.com/simaogato/sendflow/internal/domain"
	"github.com/simaogato/sendflow/internal/usecase/flow"
	"github.com/simaogato/sendflow/internal/usecase/seeder"
	"github.com/simaogato/sendflow/internal/usecase/session"
)

type testEnv struct {
	client *FlowServiceClient
	sched  *flow.ManualScheduler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sched := flow.NewManualScheduler(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	svc := session.NewSessionService(
		memory.NewCatalogRepository(seeder.DefaultCatalog()),
		memory.NewSessionRepository[*flow.Machine](),
		nil,
		flow.DefaultTiming(),
		sched,
		domain.HostConfig{
			AmountMinorUnits: 200000,
			SenderID:         "greenfield",
			ReceiverID:       "cactuspractice",
			MethodID:         "usdc",
			Layout:           domain.LayoutCompany,
			Surface:          domain.SurfaceModal,
		},
	)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		RecoveryInterceptor(zap.NewNop()),
		LoggingInterceptor(zap.NewNop()),
	))
	RegisterFlowServiceServer(srv, NewServer(svc))
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &testEnv{client: NewFlowServiceClient(conn), sched: sched}
}

func (e *testEnv) call(t *testing.T, method string, req map[string]any) (*structpb.Struct, error) {
	t.Helper()
	in, err := structpb.NewStruct(req)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.client.Call(ctx, method, in)
}

func viewField(t *testing.T, resp *structpb.Struct, key string) *structpb.Value {
	t.Helper()
	view := resp.GetFields()["view"].GetStructValue()
	require.NotNil(t, view, "response has no view")
	return view.GetFields()[key]
}

func TestFlowService_OpenWithZeroAmount(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.call(t, MethodOpenSession, map[string]any{"amount_minor_units": 0})
	require.NoError(t, err)
	id := resp.GetFields()["session_id"].GetStringValue()
	draft := viewField(t, resp, "draft").GetStructValue()
	assert.Equal(t, 0.0, draft.GetFields()["amount_minor_units"].GetNumberValue())

	resp, err = env.call(t, MethodDispatch, map[string]any{
		"session_id": id,
		"action":     map[string]any{"type": "request_review"},
	})
	require.NoError(t, err)
	assert.Equal(t, "select", viewField(t, resp, "flow").GetStringValue())
}

func TestFlowService_SendEndToEnd(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.call(t, MethodOpenSession, map[string]any{"receiver_id": "openai"})
	require.NoError(t, err)
	id := resp.GetFields()["session_id"].GetStringValue()
	require.NotEmpty(t, id)
	assert.NotEmpty(t, resp.GetFields()["updated_at"].GetStringValue())
	assert.Equal(t, "select", viewField(t, resp, "flow").GetStringValue())

	resp, err = env.call(t, MethodDispatch, map[string]any{
		"session_id": id,
		"action":     map[string]any{"type": "edit_amount", "text": "12.5"},
	})
	require.NoError(t, err)
	draft := viewField(t, resp, "draft").GetStructValue()
	assert.Equal(t, float64(1250), draft.GetFields()["amount_minor_units"].GetNumberValue())

	for _, action := range []string{"request_review", "confirm_send"} {
		resp, err = env.call(t, MethodDispatch, map[string]any{
			"session_id": id,
			"action":     map[string]any{"type": action},
		})
		require.NoError(t, err)
	}
	assert.Equal(t, "sending", viewField(t, resp, "flow").GetStringValue())

	env.sched.Advance(4 * time.Second)

	resp, err = env.call(t, MethodGetView, map[string]any{"session_id": id})
	require.NoError(t, err)
	assert.Equal(t, "sent", viewField(t, resp, "flow").GetStringValue())
	assert.Equal(t, "Payment Sent!", viewField(t, resp, "title").GetStringValue())
	receiver := viewField(t, resp, "receiver_card").GetStructValue()
	assert.Equal(t, "12.50", receiver.GetFields()["display_amount"].GetStringValue())

	resp, err = env.call(t, MethodResetSession, map[string]any{"session_id": id})
	require.NoError(t, err)
	assert.Equal(t, "select", viewField(t, resp, "flow").GetStringValue())

	_, err = env.call(t, MethodCloseSession, map[string]any{"session_id": id})
	require.NoError(t, err)

	_, err = env.call(t, MethodGetView, map[string]any{"session_id": id})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestFlowService_Errors(t *testing.T) {
	env := newTestEnv(t)

	open, err := env.call(t, MethodOpenSession, map[string]any{})
	require.NoError(t, err)
	id := open.GetFields()["session_id"].GetStringValue()

	tests := []struct {
		name     string
		method   string
		req      map[string]any
		wantCode codes.Code
	}{
		{name: "Malformed session id", method: MethodGetView, req: map[string]any{"session_id": "nope"}, wantCode: codes.InvalidArgument},
		{name: "Unknown session", method: MethodGetView, req: map[string]any{"session_id": "00000000-0000-0000-0000-000000000042"}, wantCode: codes.NotFound},
		{name: "Unknown action", method: MethodDispatch, req: map[string]any{"session_id": id, "action": map[string]any{"type": "teleport"}}, wantCode: codes.InvalidArgument},
		{name: "Missing action", method: MethodDispatch, req: map[string]any{"session_id": id}, wantCode: codes.InvalidArgument},
		{name: "Unknown receiver", method: MethodOpenSession, req: map[string]any{"receiver_id": "ghost"}, wantCode: codes.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.call(t, tt.method, tt.req)
			assert.Equal(t, tt.wantCode, status.Code(err))
		})
	}
}

func TestFlowService_CatalogAndRecipients(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.call(t, MethodListCatalog, map[string]any{})
	require.NoError(t, err)
	catalog := resp.GetFields()["catalog"].GetStructValue()
	assert.Len(t, catalog.GetFields()["parties"].GetListValue().GetValues(), 8)

	open, err := env.call(t, MethodOpenSession, map[string]any{})
	require.NoError(t, err)
	id := open.GetFields()["session_id"].GetStringValue()

	resp, err = env.call(t, MethodSearchRecipients, map[string]any{"session_id": id, "query": "gmail"})
	require.NoError(t, err)
	recipients := resp.GetFields()["recipients"].GetListValue().GetValues()
	require.Len(t, recipients, 1)
	assert.Equal(t, "priya-anand", recipients[0].GetStructValue().GetFields()["id"].GetStringValue())
}

func TestMapError(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{err: domain.ErrSessionNotFound, want: codes.NotFound},
		{err: domain.ErrPartyNotFound, want: codes.InvalidArgument},
		{err: domain.ErrUnknownAction, want: codes.InvalidArgument},
		{err: context.DeadlineExceeded, want: codes.DeadlineExceeded},
		{err: errors.New("disk on fire"), want: codes.Internal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, status.Code(mapError(tt.err)), tt.err.Error())
	}
	assert.NoError(t, mapError(nil))
}

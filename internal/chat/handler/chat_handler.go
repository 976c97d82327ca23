// Package handler exposes the chat service over HTTP and gRPC.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"

	"campusbingo/internal/chat/service"
	"campusbingo/internal/common"
	"campusbingo/internal/config"
	"campusbingo/internal/dbmysql"
	"campusbingo/internal/notice"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// JSONCodecName is the content subtype clients must request ("application/grpc+json").
const JSONCodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                               { return JSONCodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type StartConversationRequest struct {
	ListingID uint64 `json:"listing_id"`
}

type StartConversationResponse struct {
	Room    *dbmysql.ChatRoom `json:"room"`
	Created bool              `json:"created"`
	Notice  string            `json:"notice,omitempty"`
}

type OpenRoomRequest struct {
	RoomID string `json:"room_id"`
}

type SendMessageRequest struct {
	RoomID string `json:"room_id"`
	Body   string `json:"body"`
}

type SendMessageResponse struct {
	Message *dbmysql.Message `json:"message"`
}

type ListInboxRequest struct{}

type UnreadBadgeRequest struct{}

type UnreadBadgeResponse struct {
	TotalUnread int64 `json:"total_unread"`
}

// ChatServiceServer is the gRPC surface of the chat service.
type ChatServiceServer interface {
	StartConversation(context.Context, *StartConversationRequest) (*StartConversationResponse, error)
	OpenRoom(context.Context, *OpenRoomRequest) (*service.RoomView, error)
	SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error)
	ListInbox(context.Context, *ListInboxRequest) (*service.Inbox, error)
	GetUnreadBadge(context.Context, *UnreadBadgeRequest) (*UnreadBadgeResponse, error)
}

type ChatHandler struct {
	chatService service.ChatService
	notices     *notice.Translator
	limit       bodyLimit
	log         *slog.Logger
}

func NewChatHandler(chatService service.ChatService, notices *notice.Translator, cfg *config.Config, log *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		notices:     notices,
		limit:       newBodyLimit(cfg),
		log:         log,
	}
}

var _ ChatServiceServer = (*ChatHandler)(nil)

func (h *ChatHandler) StartConversation(ctx context.Context, req *StartConversationRequest) (*StartConversationResponse, error) {
	if req.ListingID == 0 {
		return nil, h.statusError(ctx, common.ErrInvalidInput)
	}

	room, created, err := h.chatService.StartOrResumeConversation(ctx, req.ListingID, common.PrincipalFromContext(ctx))
	if err != nil {
		return nil, h.statusError(ctx, err)
	}

	resp := &StartConversationResponse{Room: room, Created: created}
	if created {
		name := h.chatService.DisplayName(ctx, room.SellerID)
		resp.Notice = h.notices.ChatStarted(acceptLanguage(ctx), name)
	}
	return resp, nil
}

func (h *ChatHandler) OpenRoom(ctx context.Context, req *OpenRoomRequest) (*service.RoomView, error) {
	view, err := h.chatService.OpenRoom(ctx, req.RoomID, common.PrincipalFromContext(ctx))
	if err != nil {
		return nil, h.statusError(ctx, err)
	}
	return view, nil
}

func (h *ChatHandler) SendMessage(ctx context.Context, req *SendMessageRequest) (*SendMessageResponse, error) {
	if err := h.limit.check(req.Body); err != nil {
		return nil, h.statusError(ctx, err)
	}

	msg, err := h.chatService.SendMessage(ctx, req.RoomID, common.PrincipalFromContext(ctx), req.Body)
	if err != nil {
		return nil, h.statusError(ctx, err)
	}
	return &SendMessageResponse{Message: msg}, nil
}

func (h *ChatHandler) ListInbox(ctx context.Context, _ *ListInboxRequest) (*service.Inbox, error) {
	inbox, err := h.chatService.ListInbox(ctx, common.PrincipalFromContext(ctx))
	if err != nil {
		return nil, h.statusError(ctx, err)
	}
	return inbox, nil
}

func (h *ChatHandler) GetUnreadBadge(ctx context.Context, _ *UnreadBadgeRequest) (*UnreadBadgeResponse, error) {
	total, err := h.chatService.GetGlobalUnreadBadge(ctx, common.PrincipalFromContext(ctx))
	if err != nil {
		return nil, h.statusError(ctx, err)
	}
	return &UnreadBadgeResponse{TotalUnread: total}, nil
}

// statusError carries the localized notice as the status message when there is one.
func (h *ChatHandler) statusError(ctx context.Context, err error) error {
	code := common.GRPCCode(err)
	if code == codes.Internal {
		h.log.Error("chat rpc failed", "error", err)
	}

	msg := common.PublicMessage(err)
	if n := h.notices.ForError(acceptLanguage(ctx), err); n != "" {
		msg = n
	}
	return status.Error(code, msg)
}

func acceptLanguage(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if vals := md.Get("accept-language"); len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func RegisterChatServiceServer(s grpc.ServiceRegistrar, srv ChatServiceServer) {
	s.RegisterService(&ChatServiceDesc, srv)
}

func _ChatService_StartConversation_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(StartConversationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChatServiceServer).StartConversation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/campusbingo.chat.v1.ChatService/StartConversation",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ChatServiceServer).StartConversation(ctx, req.(*StartConversationRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ChatService_OpenRoom_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(OpenRoomRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChatServiceServer).OpenRoom(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/campusbingo.chat.v1.ChatService/OpenRoom",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ChatServiceServer).OpenRoom(ctx, req.(*OpenRoomRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ChatService_SendMessage_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SendMessageRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChatServiceServer).SendMessage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/campusbingo.chat.v1.ChatService/SendMessage",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ChatServiceServer).SendMessage(ctx, req.(*SendMessageRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ChatService_ListInbox_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListInboxRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChatServiceServer).ListInbox(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/campusbingo.chat.v1.ChatService/ListInbox",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ChatServiceServer).ListInbox(ctx, req.(*ListInboxRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ChatService_GetUnreadBadge_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UnreadBadgeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChatServiceServer).GetUnreadBadge(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/campusbingo.chat.v1.ChatService/GetUnreadBadge",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ChatServiceServer).GetUnreadBadge(ctx, req.(*UnreadBadgeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ChatServiceDesc is written by hand; payloads travel as JSON through jsonCodec.
var ChatServiceDesc = grpc.ServiceDesc{
	ServiceName: "campusbingo.chat.v1.ChatService",
	HandlerType: (*ChatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "StartConversation", Handler: _ChatService_StartConversation_Handler},
		{MethodName: "OpenRoom", Handler: _ChatService_OpenRoom_Handler},
		{MethodName: "SendMessage", Handler: _ChatService_SendMessage_Handler},
		{MethodName: "ListInbox", Handler: _ChatService_ListInbox_Handler},
		{MethodName: "GetUnreadBadge", Handler: _ChatService_GetUnreadBadge_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "campusbingo/chat/v1",
}

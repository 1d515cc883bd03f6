package logger

import (
	"context"
	"path"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func splitMethod(fullMethod string) (string, string) {
	return path.Dir(fullMethod)[1:], path.Base(fullMethod)
}

func codeOf(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if st, ok := status.FromError(err); ok {
		return st.Code()
	}
	return codes.Unknown
}

// transient codes are logged at warn level, everything else non-OK at error.
func isTransient(code codes.Code) bool {
	switch code {
	case codes.Canceled, codes.DeadlineExceeded, codes.ResourceExhausted,
		codes.Aborted, codes.Unavailable, codes.DataLoss:
		return true
	}
	return false
}

func logRPC(logger *zap.Logger, msg string, code codes.Code, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("grpc.code", code.String()))
	switch {
	case code == codes.OK:
		logger.Info(msg, fields...)
	case isTransient(code):
		logger.Warn(msg, append(fields, zap.Error(err))...)
	default:
		logger.Error(msg, append(fields, zap.Error(err))...)
	}
}

// NewGrpcUnaryServerInterceptor logs unary calls with their status code and duration.
func NewGrpcUnaryServerInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		service, method := splitMethod(info.FullMethod)
		logRPC(logger, "gRPC request", codeOf(err), err,
			zap.String("grpc.service", service),
			zap.String("grpc.method", method),
			zap.Duration("grpc.duration", time.Since(start)),
		)
		return resp, err
	}
}

// NewGrpcStreamServerInterceptor logs streaming calls once they finish.
func NewGrpcStreamServerInterceptor(logger *zap.Logger) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		wrapped := &wrappedServerStream{ServerStream: ss}
		err := handler(srv, wrapped)

		service, method := splitMethod(info.FullMethod)
		logRPC(logger, "gRPC stream", codeOf(err), err,
			zap.String("grpc.service", service),
			zap.String("grpc.method", method),
			zap.Int("grpc.recv_count", wrapped.recvCount),
			zap.Int("grpc.send_count", wrapped.sendCount),
			zap.Duration("grpc.duration", time.Since(start)),
		)
		return err
	}
}

type wrappedServerStream struct {
	grpc.ServerStream
	recvCount int
	sendCount int
}

func (w *wrappedServerStream) RecvMsg(m interface{}) error {
	err := w.ServerStream.RecvMsg(m)
	if err == nil {
		w.recvCount++
	}
	return err
}

func (w *wrappedServerStream) SendMsg(m interface{}) error {
	err := w.ServerStream.SendMsg(m)
	if err == nil {
		w.sendCount++
	}
	return err
}

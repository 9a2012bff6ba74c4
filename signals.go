package l2encdec

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for codec events.
var (
	SignalInitialized    = capitan.NewSignal("l2encdec.initialized", "Codec handle ready")
	SignalEncodeStart    = capitan.NewSignal("l2encdec.encode.start", "Encode operation beginning")
	SignalEncodeComplete = capitan.NewSignal("l2encdec.encode.complete", "Encode operation finished")
	SignalDecodeStart    = capitan.NewSignal("l2encdec.decode.start", "Decode operation beginning")
	SignalDecodeComplete = capitan.NewSignal("l2encdec.decode.complete", "Decode operation finished")
)

// Keys for typed event data.
var (
	KeyProtocol  = capitan.NewIntKey("protocol")
	KeyVariant   = capitan.NewStringKey("variant")
	KeyInSize    = capitan.NewIntKey("in_size")
	KeyOutSize   = capitan.NewIntKey("out_size")
	KeyDuration  = capitan.NewDurationKey("duration")
	KeyRSAMode   = capitan.NewStringKey("rsa_mode")
	KeyFailure   = capitan.NewErrorKey("error")
	KeyProtocols = capitan.NewIntKey("protocols")
)

// rsaMode names the RSA decrypt path for event data.
func rsaMode(legacy bool) string {
	if legacy {
		return "legacy"
	}
	return "standard"
}

// emitInitialized emits an event when the default handle is built.
func emitInitialized(ctx context.Context, protocols int) {
	capitan.Emit(ctx, SignalInitialized,
		KeyProtocols.Field(protocols),
	)
}

// emitEncodeStart emits an event when encode begins.
func emitEncodeStart(ctx context.Context, protocol, size int) {
	capitan.Emit(ctx, SignalEncodeStart,
		KeyProtocol.Field(protocol),
		KeyInSize.Field(size),
	)
}

// emitEncodeComplete emits an event when encode finishes.
func emitEncodeComplete(ctx context.Context, protocol int, variant Variant, in, out int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyProtocol.Field(protocol),
		KeyVariant.Field(string(variant)),
		KeyInSize.Field(in),
		KeyOutSize.Field(out),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyFailure.Field(err))
		capitan.Error(ctx, SignalEncodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEncodeComplete, fields...)
	}
}

// emitDecodeStart emits an event when decode begins.
func emitDecodeStart(ctx context.Context, protocol, size int, legacy bool) {
	capitan.Emit(ctx, SignalDecodeStart,
		KeyProtocol.Field(protocol),
		KeyInSize.Field(size),
		KeyRSAMode.Field(rsaMode(legacy)),
	)
}

// emitDecodeComplete emits an event when decode finishes.
func emitDecodeComplete(ctx context.Context, protocol int, variant Variant, in, out int, duration time.Duration, legacy bool, err error) {
	fields := []capitan.Field{
		KeyProtocol.Field(protocol),
		KeyVariant.Field(string(variant)),
		KeyInSize.Field(in),
		KeyOutSize.Field(out),
		KeyDuration.Field(duration),
		KeyRSAMode.Field(rsaMode(legacy)),
	}
	if err != nil {
		fields = append(fields, KeyFailure.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}

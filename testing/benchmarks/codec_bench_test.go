package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/zoobzio/l2encdec"
	codectest "github.com/zoobzio/l2encdec/testing"
)

var sizes = []int{1 << 10, 64 << 10, 1 << 20}

func BenchmarkEncode(b *testing.B) {
	h := l2encdec.Initialize()
	ctx := context.Background()

	for _, protocol := range l2encdec.SupportedProtocols() {
		for _, size := range sizes {
			plain := codectest.TestPayload(size)
			p := codectest.TestParams(protocol)
			b.Run(fmt.Sprintf("%d/%d", protocol, size), func(b *testing.B) {
				b.SetBytes(int64(size))
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					_, _ = h.Encode(ctx, plain, p)
				}
			})
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	h := l2encdec.Initialize()
	ctx := context.Background()

	for _, protocol := range l2encdec.SupportedProtocols() {
		for _, size := range sizes {
			p := codectest.TestParams(protocol)
			wire := codectest.MustEncode(b, codectest.TestPayload(size), p)
			b.Run(fmt.Sprintf("%d/%d", protocol, size), func(b *testing.B) {
				b.SetBytes(int64(size))
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					_, _ = h.Decode(ctx, wire, p)
				}
			})
		}
	}
}

func BenchmarkPositionKey(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = l2encdec.PositionKey(i)
	}
}

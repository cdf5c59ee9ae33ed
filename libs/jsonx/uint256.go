package jsonx

import (
	"unsafe"

	"github.com/holiman/uint256"
	jsoniter "github.com/json-iterator/go"
)

func registerUint256Codec() {
	jsoniter.RegisterTypeEncoderFunc("uint256.Int",
		func(ptr unsafe.Pointer, stream *jsoniter.Stream) {
			stream.WriteString((*uint256.Int)(ptr).Dec())
		},
		func(ptr unsafe.Pointer) bool {
			return false
		})

	jsoniter.RegisterTypeDecoderFunc("uint256.Int",
		func(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
			var s string
			switch iter.WhatIsNext() {
			case jsoniter.StringValue:
				s = iter.ReadString()
			case jsoniter.NumberValue:
				s = string(iter.ReadNumber())
			default:
				iter.Skip()
				return
			}
			if err := (*uint256.Int)(ptr).SetFromDecimal(s); err != nil {
				iter.ReportError("decode uint256", err.Error())
			}
		})
}

package tele

import (
	"unicode/utf8"

	"github.com/juju/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type DecodeFunc func(payload []byte) (string, error)

// PayloadDecoder: "text" is raw UTF-8, "proto" is serialized google.protobuf.StringValue.
func PayloadDecoder(format string) (DecodeFunc, error) {
	switch format {
	case "", "text":
		return decodeText, nil
	case "proto":
		return decodeProto, nil
	}
	return nil, errors.NotValidf("payload=%s (valid: text, proto)", format)
}

func decodeText(payload []byte) (string, error) {
	if !utf8.Valid(payload) {
		return "", errors.NotValidf("payload is not UTF-8")
	}
	return string(payload), nil
}

func decodeProto(payload []byte) (string, error) {
	var v wrapperspb.StringValue
	if err := proto.Unmarshal(payload, &v); err != nil {
		return "", errors.Annotate(err, "proto.Unmarshal StringValue")
	}
	return v.GetValue(), nil
}

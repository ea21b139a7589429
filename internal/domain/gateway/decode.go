package gateway

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/lotto-lab/backend/pkg/errorx"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
)

// inbound is a frame sent by a client. Numbers are kept as json.Number so
// that amounts are never rounded through float64.
type inbound struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func parseFrame(msg []byte) (*inbound, error) {
	d := json.NewDecoder(bytes.NewReader(msg))
	d.UseNumber()

	var in inbound
	if err := d.Decode(&in); err != nil {
		return nil, err
	}

	return &in, nil
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

func decimalHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != decimalType {
		return data, nil
	}

	switch v := data.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		return decimal.NewFromString(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	}

	return data, nil
}

// decodeData decodes the payload of a frame into req. Values are converted
// weakly, so "5" is accepted for a numeric field.
func decodeData(data any, req any) error {
	if data == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       decimalHook,
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           req,
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(data); err != nil {
		return errorx.New(errorx.BadRequest, "Invalid request data")
	}

	return nil
}

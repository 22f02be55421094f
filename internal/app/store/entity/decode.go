// internal/app/store/entity/decode.go
package entitystore

import (
	"reflect"
	"strings"
	"time"

	"github.com/dalemusser/stratasite/internal/app/system/docval"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// serverKeys are assigned by the store and never taken from a payload.
var serverKeys = []string{"_id", "id", "created_at", "updated_at", "createdAt", "updatedAt", "password_hash", "singleton"}

var objectIDType = reflect.TypeOf(primitive.ObjectID{})

// stripServerKeys returns a shallow copy of payload without identity,
// timestamp and other server-owned keys.
func stripServerKeys(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = v
	}
	for _, k := range serverKeys {
		delete(out, k)
	}
	return out
}

// objectIDHook decodes hex strings into ObjectIDs. A blank string is the
// zero ObjectID (an unset reference).
func objectIDHook(from, to reflect.Type, data any) (any, error) {
	if to != objectIDType || from.Kind() != reflect.String {
		return data, nil
	}
	s := strings.TrimSpace(reflect.ValueOf(data).String())
	if s == "" {
		return primitive.NilObjectID, nil
	}
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return nil, docval.Invalid("", "invalid reference id: "+s)
	}
	return oid, nil
}

// decode fills out from a JSON-shaped payload. Form submissions arrive as
// strings, so weak typing turns "3" into 3 and "true" into true.
func decode(payload map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Squash:           true,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			objectIDHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
		Result: out,
	})
	if err != nil {
		return errors.Wrap(err, "build decoder")
	}
	if err := dec.Decode(stripServerKeys(payload)); err != nil {
		if ve, ok := docval.AsValidation(err); ok {
			return ve
		}
		return docval.Invalid("", "invalid payload: "+err.Error())
	}
	return nil
}

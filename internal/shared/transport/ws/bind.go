package ws

import (
	"encoding/json"
	"errors"

	"github.com/go-viper/mapstructure/v2"
)

var errNilBody = errors.New("ws request body is nil")

// BindJSON 将 WsMsgReq.Body.Msg 反序列化到目标结构体。
func BindJSON(req *WsMsgReq, dst any) error {
	if req == nil || req.Body == nil {
		return errNilBody
	}
	raw, err := json.Marshal(req.Body.Msg)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// BindMap 按 mapstructure 标签把 Body.Msg 解到 dst，多余字段报错。
func BindMap(req *WsMsgReq, dst any) error {
	if req == nil || req.Body == nil {
		return errNilBody
	}
	if req.Body.Msg == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      dst,
		TagName:     "mapstructure",
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(req.Body.Msg)
}

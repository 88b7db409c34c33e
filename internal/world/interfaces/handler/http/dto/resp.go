package dto

type Resp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data,omitempty"`
}

func Success(code int, data any) Resp {
	return Resp{Code: code, Data: data}
}

func Error(code int, msg string) Resp {
	return Resp{Code: code, Msg: msg}
}

type StatsResp struct {
	Tick     uint64 `json:"tick"`
	Entities int    `json:"entities"`
	Players  int    `json:"players"`
	Pending  int    `json:"pending_scores"`
}

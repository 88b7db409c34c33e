package dto

type EnterReq struct {
	Token string `json:"token"`
}

type EnterResp struct {
	PlayerID  int    `json:"player_id"`
	SessionID string `json:"session_id"`
	Score     int    `json:"score"`
}

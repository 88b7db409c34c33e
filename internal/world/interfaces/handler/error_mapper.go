package handler

import (
	"NavalWar/internal/shared/transport"
	"NavalWar/internal/world/actor"
	"NavalWar/internal/world/command"
	"NavalWar/modules/kit/errx"
	"context"
	"errors"
)

const busyMessage = "系统繁忙，请稍后重试"

// mapBizReasonToClientCode 不认识的原因（包括没带原因）一律按系统错误回，不能落成 OK。
func mapBizReasonToClientCode(reason string) int {
	switch command.Reason(reason) {
	case command.ReasonStatus:
		return transport.CommandStatus
	case command.ReasonIneligible:
		return transport.CommandIneligible
	case command.ReasonOutOfBounds:
		return transport.CommandOutOfBounds
	case command.ReasonNotReady:
		return transport.CommandNotReady
	case command.ReasonGeometry:
		return transport.CommandGeometry
	case command.ReasonNumeric:
		return transport.CommandNumeric
	case command.ReasonCapacity:
		return transport.CommandCapacity
	default:
		return transport.SystemError
	}
}

// HandleError 业务拒绝带回原因文案；系统错误只回通用提示。
func HandleError(ctx context.Context, err error) (int, string) {
	if err == nil {
		return transport.OK, ""
	}
	reason := errx.ReasonOf(err)
	if reason != "" {
		transport.SetErrorReason(ctx, reason)
	}

	if errx.IsBiz(err) {
		var e *errx.Error
		errors.As(err, &e)
		return mapBizReasonToClientCode(reason), e.Msg()
	}
	return actor.CodeFromError(err), busyMessage
}

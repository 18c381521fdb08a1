package domain

import "errors"

var (
	ErrNotFound       = errors.New("project not found")
	ErrNameTaken      = errors.New("project name already exists")
	ErrSameRank       = errors.New("project already at requested rank")
	ErrRankOutOfRange = errors.New("requested rank out of range")
	ErrUnknownApp     = errors.New("unknown app sequence")
	ErrUnknownMedia   = errors.New("unknown media type")
)

package services

import "errors"

var (
	ErrInvalidQuantity = errors.New("quantidade inválida")
	ErrInvalidPrice    = errors.New("valor unitário inválido")
	ErrGroupNotFound   = errors.New("produto não encontrado no estoque")
	ErrMissingUserID   = errors.New("user id ausente")
	ErrInvalidPeriod   = errors.New("período inválido")
	ErrInvalidProduct  = errors.New("produto inválido")
)

package domain

import "errors"

var (
	ErrNotFound     = errors.New("não encontrado")
	ErrInvalid      = errors.New("dados inválidos")
	ErrUnauthorized = errors.New("não autenticado")
	ErrForbidden    = errors.New("sem permissão")
	ErrConflict     = errors.New("conflito")
)

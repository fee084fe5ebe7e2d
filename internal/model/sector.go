package model

import "time"

// Sector is an organizational unit.
type Sector struct {
	ID        int64     `json:"id"`
	Nome      string    `json:"nome"`
	Descricao string    `json:"descricao"`
	Ativo     bool      `json:"ativo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SectorInput is the body sent when creating or updating a sector.
type SectorInput struct {
	Nome      string `json:"nome"`
	Descricao string `json:"descricao"`
	Ativo     bool   `json:"ativo"`
}

// Input returns the editable fields of s.
func (s Sector) Input() SectorInput {
	return SectorInput{Nome: s.Nome, Descricao: s.Descricao, Ativo: s.Ativo}
}

// DefaultSectorInput seeds the create form.
func DefaultSectorInput() SectorInput {
	return SectorInput{Ativo: true}
}

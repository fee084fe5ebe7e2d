package model

import "time"

// Report status values.
const (
	ReportStatusPending    = "pendente"
	ReportStatusInProgress = "em_andamento"
	ReportStatusDone       = "concluido"
	ReportStatusCanceled   = "cancelado"
)

// Report priority values.
const (
	ReportPriorityLow      = "baixa"
	ReportPriorityMedium   = "media"
	ReportPriorityHigh     = "alta"
	ReportPriorityCritical = "critica"
)

// ReportStatuses lists the status values in display order.
var ReportStatuses = []string{
	ReportStatusPending,
	ReportStatusInProgress,
	ReportStatusDone,
	ReportStatusCanceled,
}

// ReportPriorities lists the priority values from lowest to highest.
var ReportPriorities = []string{
	ReportPriorityLow,
	ReportPriorityMedium,
	ReportPriorityHigh,
	ReportPriorityCritical,
}

// Report is the summary form of a maintenance report, with the names of
// its associated user, location and equipment denormalized by the backend.
type Report struct {
	ID              int64     `json:"id"`
	Titulo          string    `json:"titulo"`
	Status          string    `json:"status"`
	Prioridade      string    `json:"prioridade"`
	CreatedAt       time.Time `json:"created_at"`
	UsuarioNome     string    `json:"usuario_nome"`
	LocalNome       string    `json:"local_nome"`
	EquipamentoNome string    `json:"equipamento_nome"`
}

// StatusLabel returns the human label for a report status.
func StatusLabel(status string) string {
	switch status {
	case ReportStatusPending:
		return "Pendente"
	case ReportStatusInProgress:
		return "Em andamento"
	case ReportStatusDone:
		return "Concluído"
	case ReportStatusCanceled:
		return "Cancelado"
	default:
		return status
	}
}

// PriorityLabel returns the human label for a report priority.
func PriorityLabel(priority string) string {
	switch priority {
	case ReportPriorityLow:
		return "Baixa"
	case ReportPriorityMedium:
		return "Média"
	case ReportPriorityHigh:
		return "Alta"
	case ReportPriorityCritical:
		return "Crítica"
	default:
		return priority
	}
}

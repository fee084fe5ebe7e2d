package model

import "time"

// NotificationType describes one entry of the backend's fixed catalog of
// notification kinds. It is never created or changed by the client.
type NotificationType struct {
	Tipo      string `json:"tipo"`
	Nome      string `json:"nome"`
	Descricao string `json:"descricao"`
}

// NotificationStats summarizes notification activity.
type NotificationStats struct {
	TotalUsuarios        int `json:"total_usuarios"`
	UsuariosAtivos       int `json:"usuarios_ativos"`
	NotificacoesHoje     int `json:"notificacoes_hoje"`
	NotificacoesNaoLidas int `json:"notificacoes_nao_lidas"`
}

// RecentNotification is a notification recently sent to some user.
type RecentNotification struct {
	ID          int64     `json:"id"`
	Tipo        string    `json:"tipo"`
	Titulo      string    `json:"titulo"`
	Mensagem    string    `json:"mensagem"`
	UsuarioNome string    `json:"usuario_nome"`
	Lida        bool      `json:"lida"`
	CreatedAt   time.Time `json:"created_at"`
}

// NotificationOverview is the payload of GET /notificacoes/gerenciamento.
type NotificationOverview struct {
	Estatisticas         NotificationStats    `json:"estatisticas"`
	Usuarios             []User               `json:"usuarios"`
	NotificacoesRecentes []RecentNotification `json:"notificacoes_recentes"`
	TiposDisponiveis     []NotificationType   `json:"tipos_disponiveis"`
}

// PreferencesUpdate is the body of the preference update request.
type PreferencesUpdate struct {
	Preferencias map[string]bool `json:"preferencias"`
}

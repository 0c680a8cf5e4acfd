package backend

// Speaker identifies who authored a stored turn.
type Speaker string

const (
	SpeakerHuman Speaker = "humano"
	SpeakerAI    Speaker = "ia"
)

// MessageBody is the payload of a stored turn.
type MessageBody struct {
	Tipo      Speaker `json:"tipo"`
	Contenido string  `json:"contenido"`
}

// Message is one stored turn as returned by the history endpoint.
type Message struct {
	ID       int64       `json:"id"`
	IDSesion string      `json:"id_sesion"`
	Mensaje  MessageBody `json:"mensaje"`
	Creado   string      `json:"creado"`
}

// Pagination is the optional paging block of a history response.
type Pagination struct {
	PaginaActual   int  `json:"pagina_actual"`
	TotalPaginas   int  `json:"total_paginas"`
	TieneSiguiente bool `json:"tiene_siguiente"`
	TieneAnterior  bool `json:"tiene_anterior"`
	Cantidad       int  `json:"cantidad"`
}

// HistoryResponse is one page of a session's history, newest turn first.
type HistoryResponse struct {
	Mensajes   []Message   `json:"mensajes"`
	Paginacion *Pagination `json:"paginacion,omitempty"`
}

// Conversation is one row of a user's conversation list.
type Conversation struct {
	ID       int64  `json:"id"`
	IDSesion string `json:"id_sesion"`
	Titulo   string `json:"titulo"`
}

// ConversationsResponse is the body of the conversation list endpoint.
type ConversationsResponse struct {
	Conversaciones []Conversation `json:"conversaciones"`
}

// SendRequest is the body posted to the send-message endpoint.
type SendRequest struct {
	Mensaje   string `json:"mensaje"`
	IDSesion  string `json:"id_sesion"`
	IDUsuario int    `json:"id_usuario"`
}

// SendResponse is the assistant reply.
type SendResponse struct {
	Output string `json:"output"`
}

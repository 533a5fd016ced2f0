package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// NotificationKind is the discriminator stored in notificacoes.tipo.
type NotificationKind string

const (
	NotificationShortage NotificationKind = "falta_estoque"
	NotificationWeather  NotificationKind = "alerta_clima"
	NotificationGeneric  NotificationKind = "generica"
)

// NotificationPayload is implemented only by the variants in this file.
type NotificationPayload interface {
	Kind() NotificationKind
}

// ShortageAlert is raised when an activity consumed more of a product than was logged.
type ShortageAlert struct {
	ProductName string  `json:"nome_produto"`
	Quantity    float64 `json:"quantidade"`
	Unit        string  `json:"unidade"`
	ActivityID  string  `json:"atividade_id,omitempty"`
}

func (ShortageAlert) Kind() NotificationKind { return NotificationShortage }

// WeatherAlert carries one forecast-derived warning.
type WeatherAlert struct {
	Type    string `json:"tipo_alerta"`
	Date    string `json:"data"`
	Message string `json:"mensagem"`
}

func (WeatherAlert) Kind() NotificationKind { return NotificationWeather }

// Generic keeps payloads we do not model as raw JSON.
type Generic struct {
	Raw json.RawMessage `json:"raw"`
}

func (Generic) Kind() NotificationKind { return NotificationGeneric }

// Notification is a decoded row of notificacoes.
type Notification struct {
	ID        string              `json:"id"`
	UserID    string              `json:"user_id"`
	Read      bool                `json:"lida"`
	CreatedAt time.Time           `json:"created_at"`
	Payload   NotificationPayload `json:"-"`
}

// MarshalJSON flattens the payload next to its discriminator.
func (n Notification) MarshalJSON() ([]byte, error) {
	type alias Notification
	var payload any = n.Payload
	kind := NotificationGeneric
	if n.Payload != nil {
		kind = n.Payload.Kind()
	}
	if g, ok := n.Payload.(Generic); ok {
		payload = g.Raw
	}
	return json.Marshal(struct {
		alias
		Tipo    NotificationKind `json:"tipo"`
		Payload any              `json:"payload"`
	}{alias: alias(n), Tipo: kind, Payload: payload})
}

// NotificationRow is the storage shape of a notification.
type NotificationRow struct {
	ID        string         `gorm:"type:uuid;primaryKey"`
	UserID    string         `gorm:"type:uuid;not null;index"`
	Tipo      string         `gorm:"column:tipo;type:varchar(30)"`
	Payload   datatypes.JSON `gorm:"column:payload;type:jsonb"`
	Read      bool           `gorm:"column:lida;default:false"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index"`
}

// TableName maps the model to its Supabase table.
func (NotificationRow) TableName() string {
	return "notificacoes"
}

// DecodeNotification turns a stored row into a typed notification. Unknown
// kinds and payloads that fail to parse become Generic.
func DecodeNotification(row NotificationRow) Notification {
	n := Notification{
		ID:        row.ID,
		UserID:    row.UserID,
		Read:      row.Read,
		CreatedAt: row.CreatedAt,
	}
	raw := json.RawMessage(row.Payload)
	payload, err := DecodePayload(NotificationKind(row.Tipo), raw)
	if err != nil {
		payload = Generic{Raw: raw}
	}
	n.Payload = payload
	return n
}

// DecodePayload parses raw JSON according to kind.
func DecodePayload(kind NotificationKind, raw json.RawMessage) (NotificationPayload, error) {
	switch kind {
	case NotificationShortage:
		var p ShortageAlert
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		if p.ProductName == "" {
			return nil, fmt.Errorf("decode %s: missing nome_produto", kind)
		}
		return p, nil
	case NotificationWeather:
		var p WeatherAlert
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		return p, nil
	default:
		return Generic{Raw: raw}, nil
	}
}

// EncodeNotification is the inverse of DecodeNotification.
func EncodeNotification(n Notification) (NotificationRow, error) {
	row := NotificationRow{
		ID:        n.ID,
		UserID:    n.UserID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
		Tipo:      string(NotificationGeneric),
	}
	if n.Payload == nil {
		row.Payload = datatypes.JSON("null")
		return row, nil
	}
	row.Tipo = string(n.Payload.Kind())
	if g, ok := n.Payload.(Generic); ok {
		row.Payload = datatypes.JSON(g.Raw)
		return row, nil
	}
	data, err := json.Marshal(n.Payload)
	if err != nil {
		return row, err
	}
	row.Payload = data
	return row, nil
}

// Package telegram is a minimal Bot API client: just the update types and
// methods this bot needs, over plain HTTP.
package telegram

// Update is one inbound webhook event. Exactly one of Message or
// CallbackQuery is set for the events this bot handles.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

// Message is an inbound chat message.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Date      int64  `json:"date"`
	Text      string `json:"text"`
}

// User is the sender of a message or callback.
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
}

// Chat identifies the conversation.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// CallbackQuery is a button press on an inline keyboard.
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    *User    `json:"from,omitempty"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data"`
}

// ReplyKeyboard is a persistent keyboard of plain-text buttons; pressing one
// re-injects its label as if typed.
type ReplyKeyboard struct {
	Keyboard       [][]KeyboardButton `json:"keyboard"`
	ResizeKeyboard bool               `json:"resize_keyboard"`
}

// KeyboardButton is one labeled reply-keyboard action.
type KeyboardButton struct {
	Text string `json:"text"`
}

// InlineKeyboard is a keyboard of callback buttons attached to a message.
type InlineKeyboard struct {
	InlineKeyboard [][]InlineButton `json:"inline_keyboard"`
}

// InlineButton carries an opaque callback token consumed by the webhook.
type InlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

package api

// Reply - ответ на команду без дополнительных данных.
func Reply(code uint8) *ServerMessage {
	return &ServerMessage{Response: code}
}

// ReplyText - ответ с текстом (приветствие, причина отключения).
func ReplyText(code uint8, text string) *ServerMessage {
	msg := &ServerMessage{Response: code}
	PutString(msg.Text[:], text)
	return msg
}

// Notify - асинхронное уведомление, связанное с другим игроком.
func Notify(code uint8, friendName string) *ServerMessage {
	msg := &ServerMessage{Message: code}
	PutString(msg.FriendName[:], friendName)
	return msg
}

// Event - боевое уведомление без данных (подобрал патроны, ранен, убит...).
func Event(code uint8) *ServerMessage {
	return &ServerMessage{Message: code}
}

// Say - текстовое сообщение от сервера.
func Say(text string) *ServerMessage {
	msg := &ServerMessage{Message: MsgNotice}
	PutString(msg.Text[:], text)
	return msg
}

// Chat - реплика игрока from.
func Chat(from, text string) *ServerMessage {
	msg := &ServerMessage{Message: MsgFriendMessage}
	PutString(msg.FromUser[:], from)
	PutString(msg.Text[:], text)
	return msg
}

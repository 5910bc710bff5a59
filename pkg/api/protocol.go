package api

import (
	"bytes"

	"shooter-server/internal/domain"
)

// Размеры строковых полей записи (включая завершающий ноль).
const (
	UsernameSize = 24
	PasswordSize = 24
	MsgSize      = 256

	MapRowBytes = domain.GridWidth / 2
)

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand - запись фиксированного размера от клиента.
// Какие поля значимы, зависит от Command (см. domain.CommandCode).
type ClientCommand struct {
	Command  uint8
	UserName [UsernameSize]byte // логин, цель приглашения или адресат чата
	Password [PasswordSize]byte
	Message  [MsgSize]byte // текст чата или строка админ-команды
}

// Code возвращает код команды.
func (c *ClientCommand) Code() domain.CommandCode {
	return domain.CommandCode(c.Command)
}

// --- СЕРВЕР -> КЛИЕНТ ---

// Коды ответов на команды (ServerMessage.Response).
const (
	RespNone uint8 = iota
	RespLoginSuccess
	RespLoginFailDupUserID
	RespLoginFailServerFull
	RespLoginFailUnregistered
	RespLoginFailWrongPassword
	RespAlreadyLoggedIn
	RespNotLoggedIn
	RespRegisterSuccess
	RespRegisterFail
	RespAlreadyRegistered
	RespAllUsersInfo
	RespAllFriendsInfo
	RespLaunchBattleSuccess
	RespLaunchBattleFail
	RespAlreadyInBattle
	RespNotInBattle
	RespInvitationSent
	RespNobodyInvitedYou
	RespStatusQuit
	RespStatusFatal
)

// Коды асинхронных уведомлений (ServerMessage.Message).
const (
	MsgNone uint8 = iota
	MsgFriendLogin
	MsgFriendLogout
	MsgFriendNotFound
	MsgFriendAlreadyInBattle
	MsgInviteToBattle
	MsgFriendAcceptBattle
	MsgFriendRejectBattle
	MsgFriendMessage
	MsgUserQuitBattle
	MsgGotAmmo
	MsgGotHealth
	MsgTrappedInHazard
	MsgShot
	MsgDead
	MsgAmmoEmpty
	MsgBattleInformation
	MsgScoreboard
	MsgNotice
)

// Коды клеток карты. При наложении сущностей побеждает больший код.
const (
	CellEmpty uint8 = iota
	CellTerrain
	CellAmmo
	CellHealth
	CellLandmine // видна только владельцу
	CellHazard
	CellOtherProjectile
	CellOwnProjectile
)

// ColorCount - размер палитры игроков; цвет участника i = i%ColorCount + 1, 0 - нет игрока.
const ColorCount = 7

// PlayerColor - цвет участника с данным ID сессии.
func PlayerColor(id int) uint8 {
	return uint8(id%ColorCount + 1)
}

// UserEntry - строка списка пользователей.
type UserEntry struct {
	State uint8 // domain.SessionState
	Name  [UsernameSize]byte
}

// ScoreEntry - строка таблицы очков.
type ScoreEntry struct {
	Name   [UsernameSize]byte
	Color  uint8
	Health int32
	Score  int32
	Kills  int32
	Deaths int32
}

// CellPos - позиция на поле, (-1, -1) для отсутствующего участника.
type CellPos struct {
	X int8
	Y int8
}

// ServerMessage - запись фиксированного размера от сервера.
type ServerMessage struct {
	Response   uint8
	Message    uint8
	FriendName [UsernameSize]byte
	FromUser   [UsernameSize]byte
	Text       [MsgSize]byte

	AllUsers [domain.MaxUsers]UserEntry
	Scores   [domain.MaxUsers]ScoreEntry

	UserPos   [domain.MaxUsers]CellPos
	UserColor [domain.MaxUsers]uint8

	Index  uint8 // ID сессии получателя
	Health int32
	Ammo   int32
	Color  uint8

	// Map - клетки поля, по две в байт: младший полубайт - четный X, старший - нечетный.
	Map [domain.GridHeight][MapRowBytes]byte
}

// PutString копирует s в поле фиксированной длины, всегда оставляя завершающий ноль.
func PutString(dst []byte, s string) {
	for i := range dst {
		dst[i] = 0
	}
	if len(dst) == 0 {
		return
	}
	copy(dst[:len(dst)-1], s)
}

// GetString читает строку из поля фиксированной длины до первого нуля.
func GetString(src []byte) string {
	if i := bytes.IndexByte(src, 0); i >= 0 {
		return string(src[:i])
	}
	return string(src)
}

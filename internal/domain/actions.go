package domain

// CommandCode - числовой код команды клиента в бинарной записи.
type CommandCode uint8

const (
	CmdQuit CommandCode = iota
	CmdRegister
	CmdLogin
	CmdLogout
	CmdListUsers
	CmdListFriends

	CmdLaunchBattle
	CmdJoinBattle
	CmdQuitBattle
	CmdAcceptBattle
	CmdRejectBattle
	CmdInviteUser
	CmdJoinFFA
	CmdCreateFFA

	CmdSendMessage

	CmdMoveUp
	CmdMoveDown
	CmdMoveLeft
	CmdMoveRight
	CmdMoveUpLeft
	CmdMoveUpRight
	CmdMoveDownLeft
	CmdMoveDownRight

	CmdFireUp
	CmdFireDown
	CmdFireLeft
	CmdFireRight
	CmdFireUpLeft
	CmdFireUpRight
	CmdFireDownLeft
	CmdFireDownRight

	CmdFireAoeUp
	CmdFireAoeDown
	CmdFireAoeLeft
	CmdFireAoeRight

	CmdPutLandmine
	CmdMelee
	CmdAdminControl
	CmdFatal

	CmdEnd // первый недопустимый код
)

// Маппинг для логов
var commandToString = map[CommandCode]string{
	CmdQuit:          "QUIT",
	CmdRegister:      "REGISTER",
	CmdLogin:         "LOGIN",
	CmdLogout:        "LOGOUT",
	CmdListUsers:     "LIST_USERS",
	CmdListFriends:   "LIST_FRIENDS",
	CmdLaunchBattle:  "LAUNCH_BATTLE",
	CmdJoinBattle:    "JOIN_BATTLE",
	CmdQuitBattle:    "QUIT_BATTLE",
	CmdAcceptBattle:  "ACCEPT_BATTLE",
	CmdRejectBattle:  "REJECT_BATTLE",
	CmdInviteUser:    "INVITE_USER",
	CmdJoinFFA:       "JOIN_FFA",
	CmdCreateFFA:     "CREATE_FFA",
	CmdSendMessage:   "SEND_MESSAGE",
	CmdMoveUp:        "MOVE_UP",
	CmdMoveDown:      "MOVE_DOWN",
	CmdMoveLeft:      "MOVE_LEFT",
	CmdMoveRight:     "MOVE_RIGHT",
	CmdMoveUpLeft:    "MOVE_UP_LEFT",
	CmdMoveUpRight:   "MOVE_UP_RIGHT",
	CmdMoveDownLeft:  "MOVE_DOWN_LEFT",
	CmdMoveDownRight: "MOVE_DOWN_RIGHT",
	CmdFireUp:        "FIRE_UP",
	CmdFireDown:      "FIRE_DOWN",
	CmdFireLeft:      "FIRE_LEFT",
	CmdFireRight:     "FIRE_RIGHT",
	CmdFireUpLeft:    "FIRE_UP_LEFT",
	CmdFireUpRight:   "FIRE_UP_RIGHT",
	CmdFireDownLeft:  "FIRE_DOWN_LEFT",
	CmdFireDownRight: "FIRE_DOWN_RIGHT",
	CmdFireAoeUp:     "FIRE_AOE_UP",
	CmdFireAoeDown:   "FIRE_AOE_DOWN",
	CmdFireAoeLeft:   "FIRE_AOE_LEFT",
	CmdFireAoeRight:  "FIRE_AOE_RIGHT",
	CmdPutLandmine:   "PUT_LANDMINE",
	CmdMelee:         "MELEE",
	CmdAdminControl:  "ADMIN_CONTROL",
	CmdFatal:         "FATAL",
}

// String реализует интерфейс Stringer (для логов)
func (c CommandCode) String() string {
	if val, ok := commandToString[c]; ok {
		return val
	}
	return "UNKNOWN"
}

// Valid - код входит в известный набор команд.
func (c CommandCode) Valid() bool {
	return c < CmdEnd
}

// MoveCommand - код перемещения в направлении d.
func MoveCommand(d Direction) CommandCode {
	return CmdMoveUp + CommandCode(d)
}

// FireCommand - код выстрела в направлении d.
func FireCommand(d Direction) CommandCode {
	return CmdFireUp + CommandCode(d)
}

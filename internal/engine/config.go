package engine

import "time"

// Config хранит параметры запуска сервера
type Config struct {
	// Port - первый порт TCP; при занятости пробуются Port+1 .. Port+PortRange.
	Port      int
	PortRange int

	// HTTPAddr - адрес служебного HTTP (health, debug, websocket). Пустой - выключен.
	HTTPAddr string

	// UsersFile - файл учетных записей.
	UsersFile string

	// TickPeriod - длительность тика арены.
	TickPeriod time.Duration

	// Seed - мастер-зерно. От него зависят генераторы всех арен:
	// зерно арены = hash(Seed, ID арены, поколение аллокации).
	Seed int64

	// AdminLoopback - соединения с loopback-адресов получают права админа.
	AdminLoopback bool
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Port:          50000,
		PortRange:     100,
		HTTPAddr:      ":8080",
		UsersFile:     "userlists.log",
		TickPeriod:    50 * time.Millisecond,
		Seed:          time.Now().UnixNano(),
		AdminLoopback: true,
	}
}

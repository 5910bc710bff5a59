package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"shooter-server/internal/domain"
	"shooter-server/pkg/api"
)

const timeout = 3 * time.Second

func main() {
	if len(os.Args) < 5 {
		printHelp()
		return
	}

	addr, name, password := os.Args[2], os.Args[3], os.Args[4]
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		fmt.Printf("Connect failed: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	switch os.Args[1] {
	case "register":
		send(conn, domain.CmdRegister, name, password)
		fmt.Println(responseName(awaitResponse(conn)))
	case "login":
		send(conn, domain.CmdLogin, name, password)
		fmt.Println(responseName(awaitResponse(conn)))
	case "users":
		send(conn, domain.CmdLogin, name, password)
		if r := awaitResponse(conn); r.Response != api.RespLoginSuccess {
			fmt.Println(responseName(r))
			os.Exit(1)
		}
		send(conn, domain.CmdListUsers, "", "")
		msg := awaitResponse(conn)
		for _, u := range msg.AllUsers {
			if n := api.GetString(u.Name[:]); n != "" {
				fmt.Printf("%-24s %s\n", n, domain.SessionState(u.State))
			}
		}
	default:
		printHelp()
		return
	}
	send(conn, domain.CmdQuit, "", "")
}

func send(conn net.Conn, code domain.CommandCode, name, password string) {
	cmd := &api.ClientCommand{Command: uint8(code)}
	api.PutString(cmd.UserName[:], name)
	api.PutString(cmd.Password[:], password)
	data, err := api.EncodeCommand(cmd)
	if err == nil {
		_, err = conn.Write(data)
	}
	if err != nil {
		fmt.Printf("Send %s failed: %v\n", code, err)
		os.Exit(1)
	}
}

// awaitResponse пропускает уведомления до первого ответа на команду.
func awaitResponse(conn net.Conn) *api.ServerMessage {
	buf := make([]byte, api.MessageSize())
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	for {
		if _, err := io.ReadFull(conn, buf); err != nil {
			fmt.Printf("Read failed: %v\n", err)
			os.Exit(1)
		}
		msg, err := api.DecodeMessage(buf)
		if err != nil {
			fmt.Printf("Decode failed: %v\n", err)
			os.Exit(1)
		}
		if msg.Response != api.RespNone {
			return msg
		}
	}
}

func responseName(msg *api.ServerMessage) string {
	switch msg.Response {
	case api.RespLoginSuccess:
		return "login ok"
	case api.RespLoginFailDupUserID:
		return "already logged in elsewhere"
	case api.RespLoginFailServerFull:
		return "server full"
	case api.RespLoginFailUnregistered:
		return "unregistered"
	case api.RespLoginFailWrongPassword:
		return "wrong password"
	case api.RespAlreadyLoggedIn:
		return "already logged in"
	case api.RespRegisterSuccess:
		return "registered"
	case api.RespRegisterFail:
		return "register failed"
	case api.RespAlreadyRegistered:
		return "already registered"
	}
	return fmt.Sprintf("response %d: %s", msg.Response, api.GetString(msg.Text[:]))
}

func printHelp() {
	fmt.Println(`Probe - проверка сервера по бинарному протоколу
Commands:
  register <addr> <name> <password>  - зарегистрировать пользователя
  login <addr> <name> <password>     - проверить вход
  users <addr> <name> <password>     - войти и вывести список пользователей`)
}

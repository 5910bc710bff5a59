package api

import "strings"

// Credentials используется командами REGISTER и LOGIN.
type Credentials struct {
	Name     string
	Password string
}

func (p *Credentials) Decode(cmd *ClientCommand) {
	p.Name = GetString(cmd.UserName[:])
	p.Password = GetString(cmd.Password[:])
}

// TargetPayload - необязательное имя другого игрока (LAUNCH_BATTLE, INVITE_USER).
type TargetPayload struct {
	Name string
}

func (p *TargetPayload) Decode(cmd *ClientCommand) {
	p.Name = strings.TrimSpace(GetString(cmd.UserName[:]))
}

// ChatPayload - пустой Target означает сообщение всем.
type ChatPayload struct {
	Target string
	Text   string
}

func (p *ChatPayload) Decode(cmd *ClientCommand) {
	p.Target = strings.TrimSpace(GetString(cmd.UserName[:]))
	p.Text = GetString(cmd.Message[:])
}

// AdminPayload - строка админ-команды, например `hp alice 10`.
type AdminPayload struct {
	Line string
}

func (p *AdminPayload) Decode(cmd *ClientCommand) {
	p.Line = GetString(cmd.Message[:])
}

// Tokens разбивает строку по пробелам; двойные кавычки объединяют слова.
func (p AdminPayload) Tokens() []string {
	var (
		out     []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	flush := func() {
		if started {
			out = append(out, cur.String())
		}
		cur.Reset()
		started = false
	}
	for _, r := range p.Line {
		switch {
		case r == '"':
			if inQuote {
				inQuote = false
				flush()
			} else {
				flush()
				inQuote = true
				started = true
			}
		case !inQuote && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			flush()
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	flush()
	return out
}

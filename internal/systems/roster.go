package systems

// Roster - доступ к профилям сессий из симуляции (имена и очки).
// Реализуется session.Registry; методы не требуют замков слотов.
type Roster interface {
	Name(id int) string
	// RecordKill засчитывает убийство, только если killer не выходил с момента выстрела (тот же killerLogin).
	RecordKill(victim, killer int, killerLogin uint64) (int, bool)
	RecordPenalty(id int)
}

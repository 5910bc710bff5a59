package domain

// Емкость сервера и размеры поля боя.
// Размеры зашиты в протокол (фиксированные массивы в ServerMessage).
const (
	MaxUsers   = 10 // слотов сессий и, соответственно, арен
	GridWidth  = 60 // должна быть четной: карта пакуется по две клетки в байт
	GridHeight = 20

	// FreeForAllArena - арена с индексом 0, в нее можно войти без приглашения.
	FreeForAllArena = 0

	// NoOwner - владелец нейтральных сущностей и "нет последнего атакующего".
	NoOwner = -1
)

// Характеристики бойца
const (
	InitHealth      = 5
	MaxHealth       = 10
	HealthPerPickup = 2

	InitAmmo      = 10
	MaxAmmo       = 30
	AmmoPerPickup = 5

	LandmineCost = 2
)

// Счет
const (
	InitialScore  = 50
	DeathPenalty  = 5 // смерть без атакующего и выход из боя, пока кто-то жив
	KillBaseBonus = 5

	KillRatioMin = 0.2
	KillRatioMax = 4.0
)

// Время жизни сущностей в тиках
const (
	ProjectileLifetime = 60
	PickupLifetime     = 300
	TerrainLifetime    = 10000
	LandmineLifetime   = 1 << 40

	HazardCharges       = 3
	MeleeLength         = 3
	MeleeHazardLifetime = 3
	MineBurstLifetime   = 7
)

// Политика спавна
const (
	InitialTerrain   = 20
	MaxOtherEntities = 15

	// Шанс спавна за тик: SpawnChanceNum / SpawnChanceDen
	SpawnChanceNum = 1
	SpawnChanceDen = 100

	// ScoreboardEvery - как часто (в тиках) рассылается таблица очков.
	ScoreboardEvery = 10
)

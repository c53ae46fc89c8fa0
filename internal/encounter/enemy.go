package encounter

import (
	"strings"

	"github.com/xtding233/bust-run/internal/config"
	"github.com/xtding233/bust-run/internal/rng"
)

// NewEnemy rolls an enemy of the given type scaled to floor.
func NewEnemy(rules config.EnemyRules, typ EnemyType, floor int, src rng.RandomSource) Enemy {
	if floor < 1 {
		floor = 1
	}
	name := string(typ)
	if len(rules.Names) > 0 {
		name = rules.Names[rng.IntN(src, len(rules.Names))]
	}
	steps := floor - 1
	hp := rules.HP + rules.HPPerFloor*steps
	if hp < 1 {
		hp = 1
	}
	return Enemy{
		Name:      name,
		Type:      typ,
		HP:        hp,
		MaxHP:     hp,
		Attack:    rules.Attack + rules.AttackPerFloor*steps,
		GoldDrop:  rules.GoldDrop + rules.GoldPerFloor*steps,
		AvatarKey: string(typ) + "/" + slug(name),
	}
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}

// TypeForRoom picks the enemy type for a room: the last room of a floor is
// the boss and the one before it is an elite on floors with more than two rooms.
func TypeForRoom(room, roomsPerFloor int) EnemyType {
	switch {
	case room >= roomsPerFloor:
		return EnemyBoss
	case roomsPerFloor > 2 && room == roomsPerFloor-1:
		return EnemyElite
	}
	return EnemyNormal
}

package combat

import (
	"math"
	"testing"

	"brawlsim/internal/geom"
	"brawlsim/internal/util"
)

func TestUpdateTargetsClosestEnemy(t *testing.T) {
	b, _ := newTestBattle(t, util.New(21))
	grunt := mustSpawn(t, b, "Grunt", TeamA, 100, 300)
	mustSpawn(t, b, "Grunt", TeamA, 130, 300)
	mustSpawn(t, b, "Mite", TeamB, 400, 300)
	near := mustSpawn(t, b, "Mite", TeamB, 300, 320)

	grunt.Update()
	if got := grunt.Target(); got != near {
		t.Fatalf("target = %v, want the nearest mite", got)
	}
	if grunt.Target().Team == grunt.Team {
		t.Fatal("targeted an ally")
	}
	if grunt.State() != StateApproaching {
		t.Fatalf("state = %s, want approaching", grunt.State())
	}
	if v := grunt.Velocity(); v.X <= 0 {
		t.Fatalf("velocity %+v does not head toward the target", v)
	}
}

func TestDeadTargetIsDroppedOnRead(t *testing.T) {
	b, _ := newTestBattle(t, util.New(22))
	grunt := mustSpawn(t, b, "Grunt", TeamA, 100, 300)
	first := mustSpawn(t, b, "Mite", TeamB, 300, 300)
	second := mustSpawn(t, b, "Mite", TeamB, 500, 300)

	grunt.Update()
	if grunt.Target() != first {
		t.Fatal("expected the nearer mite first")
	}
	first.TakeDamage(first.HP(), nil)
	if grunt.Target() != nil {
		t.Fatal("dead target still returned")
	}
	grunt.Update()
	if grunt.Target() != second {
		t.Fatal("did not move on to the remaining enemy")
	}
}

func TestForcedRetargetAfterFailedAttacks(t *testing.T) {
	tests := []struct {
		name       string
		sinceMove  float64
		wantSwitch bool
		wantFailed int
	}{
		{"cooldown elapsed", PositionChangeDelay + 1, true, 0},
		{"cooldown pending", 0, false, MaxAttackAttempts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBattle(t, util.New(23))
			b.clock.Advance(10_000)
			grunt := mustSpawn(t, b, "Grunt", TeamA, 100, 300)
			far := mustSpawn(t, b, "Mite", TeamB, 400, 300)
			near := mustSpawn(t, b, "Mite", TeamB, 300, 300)

			grunt.target = far.ID
			grunt.failedAttacks = MaxAttackAttempts
			grunt.lastPositionChange = b.Now() - tt.sinceMove
			grunt.Update()

			want := far
			if tt.wantSwitch {
				want = near
			}
			if grunt.Target() != want {
				t.Fatalf("target = %v, want %v", grunt.Target(), want)
			}
			if grunt.FailedAttacks() != tt.wantFailed {
				t.Fatalf("failed attacks = %d, want %d", grunt.FailedAttacks(), tt.wantFailed)
			}
		})
	}
}

func TestAttackPrecedence(t *testing.T) {
	tests := []struct {
		name string
		dist float64
		ally *geom.Vec2
		want bool
	}{
		{"close beats blocking", 60, &geom.Vec2{X: 130, Y: 100}, true},
		{"unblocked in range", 75, nil, true},
		{"ally off the line", 75, &geom.Vec2{X: 100, Y: 130}, true},
		{"ally behind target", 75, &geom.Vec2{X: 190, Y: 100}, true},
		{"blocked past close range", 75, &geom.Vec2{X: 130, Y: 100}, false},
		{"out of range", 170, nil, false},
		{"blocked beyond extended reach", 170, &geom.Vec2{X: 130, Y: 100}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBattle(t, util.New(31))
			grunt := mustSpawn(t, b, "Grunt", TeamA, 100, 100)
			target := mustSpawn(t, b, "Mite", TeamB, 100+tt.dist, 100)
			if tt.ally != nil {
				mustSpawn(t, b, "Mite", TeamA, tt.ally.X, tt.ally.Y)
			}
			if got := grunt.attack(target); got != tt.want {
				t.Fatalf("attack = %v, want %v", got, tt.want)
			}
			wantFailed := 1
			if tt.want {
				wantFailed = 0
			}
			if grunt.FailedAttacks() != wantFailed {
				t.Fatalf("failed attacks = %d, want %d", grunt.FailedAttacks(), wantFailed)
			}
			if grunt.IsAttacking() != tt.want {
				t.Fatalf("attacking = %v, want %v", grunt.IsAttacking(), tt.want)
			}
		})
	}
}

func TestEffectiveRange(t *testing.T) {
	tests := []struct {
		size    int
		blocked bool
		want    float64
	}{
		{1, false, BaseAttackRange},
		{7, false, BaseAttackRange},
		{3, true, 160},
		{4, true, BaseAttackRange * (1 + 4.0/3)},
		{6, true, MaxAttackRange},
		{7, true, MaxAttackRange},
	}
	for _, tt := range tests {
		a := &Agent{Spec: CreatureSpec{Size: tt.size}}
		if got := a.EffectiveRange(tt.blocked); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("size %d blocked=%v: range %v, want %v", tt.size, tt.blocked, got, tt.want)
		}
	}
}

func TestSwingLandsOnce(t *testing.T) {
	b, rec := newTestBattle(t, util.New(41))
	brute := mustSpawn(t, b, "Brute", TeamA, 100, 100)
	grunt := mustSpawn(t, b, "Grunt", TeamB, 160, 100)

	if !brute.attack(grunt) {
		t.Fatal("attack rejected")
	}
	if brute.attack(grunt) {
		t.Fatal("second swing started while the first is in flight")
	}
	if brute.State() != StateAttacking {
		t.Fatalf("state = %s, want attacking", brute.State())
	}
	brute.Update()
	if v := brute.Velocity(); v != (geom.Vec2{}) {
		t.Fatalf("attacking agent moving at %+v", v)
	}

	b.clock.Advance(b.Now() + SwingDuration*1.2)
	if grunt.HP() != 100-40 {
		t.Fatalf("grunt hp = %d, want 60", grunt.HP())
	}
	if brute.IsAttacking() || brute.State() == StateAttacking {
		t.Fatal("attack lock not released")
	}
	if rec.count("Hit") != 1 {
		t.Fatalf("hits = %d, want 1", rec.count("Hit"))
	}
}

func TestSwingAtDeadTargetIsNoop(t *testing.T) {
	b, rec := newTestBattle(t, util.New(42))
	brute := mustSpawn(t, b, "Brute", TeamA, 100, 100)
	mite := mustSpawn(t, b, "Mite", TeamB, 160, 100)
	mustSpawn(t, b, "Mite", TeamB, 600, 600)

	if !brute.attack(mite) {
		t.Fatal("attack rejected")
	}
	mite.TakeDamage(mite.HP(), nil)
	hp := mite.HP()
	b.clock.Advance(b.Now() + SwingDuration*1.2)
	if mite.HP() != hp || rec.count("Hit") != 0 {
		t.Fatal("swing landed on a dead target")
	}
	if brute.IsAttacking() {
		t.Fatal("attack lock not released")
	}
}

func TestSplash(t *testing.T) {
	// Primary at distance 60 from the attacker; bystanders at 20, 40, 60, 90
	// and 120 from the primary.
	bystanders := []geom.Vec2{{X: 180, Y: 300}, {X: 160, Y: 340}, {X: 220, Y: 300}, {X: 160, Y: 390}, {X: 280, Y: 300}}
	tests := []struct {
		attacker string
		want     int
		dmg      int
	}{
		{"Grunt", 0, 0},
		{"Brute", 3, 36},
		{"Titan", 4, 88},
	}
	for _, tt := range tests {
		t.Run(tt.attacker, func(t *testing.T) {
			b, _ := newTestBattle(t, util.New(51))
			atk := mustSpawn(t, b, tt.attacker, TeamA, 100, 300)
			primary := mustSpawn(t, b, "Mite", TeamB, 160, 300)
			var others []*Agent
			for _, p := range bystanders {
				others = append(others, mustSpawn(t, b, "Mite", TeamB, p.X, p.Y))
			}

			var splashed []*Agent
			primaryHits := 0
			b.Hooks.Hit = func(_ *Agent, victim *Agent, dmg int, splash bool) {
				if !splash {
					if victim != primary {
						t.Errorf("direct hit on %v", victim.ID)
					}
					primaryHits++
					return
				}
				if victim == primary {
					t.Error("splash hit the primary")
				}
				if dmg != tt.dmg {
					t.Errorf("splash damage %d, want %d", dmg, tt.dmg)
				}
				splashed = append(splashed, victim)
			}

			if !atk.attack(primary) {
				t.Fatal("attack rejected")
			}
			b.clock.Advance(b.Now() + SwingDuration*1.2)

			if primaryHits != 1 {
				t.Fatalf("primary hit %d times", primaryHits)
			}
			if len(splashed) != tt.want {
				t.Fatalf("splash hits = %d, want %d", len(splashed), tt.want)
			}
			for i, v := range splashed {
				if v != others[i] {
					t.Fatalf("splash #%d hit bystander out of distance order", i)
				}
			}
		})
	}
}

func TestSplashDamageScalesWithSize(t *testing.T) {
	titan := &Agent{Spec: CreatureSpec{Size: 7, AttackDamage: 80}}
	tests := []struct {
		victimSize int
		want       int
	}{
		{1, 88},
		{5, 56},
		{7, 40},
	}
	for _, tt := range tests {
		if got := titan.SplashDamageAgainst(tt.victimSize); got != tt.want {
			t.Fatalf("size %d: splash %d, want %d", tt.victimSize, got, tt.want)
		}
	}
	big := &Agent{Spec: CreatureSpec{Size: 5, AttackDamage: 7}}
	if got := big.SplashDamageAgainst(6); got != 3 {
		t.Fatalf("splash against a bigger victim = %d, want 3", got)
	}
}

func TestSteeringAvoidsCrowdedAlly(t *testing.T) {
	b, _ := newTestBattle(t, util.New(61))
	grunt := mustSpawn(t, b, "Grunt", TeamA, 100, 300)
	mustSpawn(t, b, "Grunt", TeamA, 120, 290)
	target := mustSpawn(t, b, "Mite", TeamB, 600, 300)

	grunt.Update()
	if grunt.Target() != target {
		t.Fatal("no target")
	}
	direct := geom.Angle(grunt.Position(), target.Position())
	if grunt.heading == direct {
		t.Fatal("heading ignores the crowding ally")
	}
	if grunt.heading <= direct {
		t.Fatalf("heading %v should veer away from the ally above, direct %v", grunt.heading, direct)
	}
	if !grunt.committed {
		t.Fatal("heading not committed")
	}

	committed := grunt.heading
	b.clock.Advance(b.Now() + 100)
	b.phys.SetVelocity(grunt.ID, geom.Vec2{X: 50})
	grunt.Update()
	if grunt.heading != committed {
		t.Fatal("heading changed inside the commitment window")
	}
}

func TestVelocityDampsNearTarget(t *testing.T) {
	b, _ := newTestBattle(t, util.New(62))
	grunt := mustSpawn(t, b, "Grunt", TeamA, 100, 300)
	full := grunt.velocityFromAngle(0, 40, 500).Len()
	if want := 40 * b.opts.SpeedMultiplier; math.Abs(full-want) > 1e-9 {
		t.Fatalf("far speed %v, want %v", full, want)
	}
	if got := grunt.velocityFromAngle(0, 40, 120).Len(); math.Abs(got-full*0.5) > 1e-9 {
		t.Fatalf("speed at 1.5x range %v, want %v", got, full*0.5)
	}
	if got := grunt.velocityFromAngle(0, 40, 81).Len(); math.Abs(got-full*MinSpeedFactor) > 1e-9 {
		t.Fatalf("speed at range edge %v, want floor %v", got, full*MinSpeedFactor)
	}
}

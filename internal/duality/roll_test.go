package duality

import "testing"

func TestRollDualityArithmetic(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		roll := RollDuality(RollRequest{Modifier: 3, Seed: seed})

		if roll.HopeDie < 1 || roll.HopeDie > 12 {
			t.Fatalf("seed %d: hope die %d out of range", seed, roll.HopeDie)
		}
		if roll.FearDie < 1 || roll.FearDie > 12 {
			t.Fatalf("seed %d: fear die %d out of range", seed, roll.FearDie)
		}
		if roll.AdvantageDie != 0 {
			t.Fatalf("seed %d: unexpected advantage die %d", seed, roll.AdvantageDie)
		}
		if want := roll.HopeDie + roll.FearDie + 3; roll.Total != want {
			t.Fatalf("seed %d: total = %d, want %d", seed, roll.Total, want)
		}
	}
}

func TestRollDualityWithAdvantage(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		roll := RollDuality(RollRequest{Modifier: -1, Advantage: true, Seed: seed})

		if roll.AdvantageDie < 1 || roll.AdvantageDie > 6 {
			t.Fatalf("seed %d: advantage die %d out of range", seed, roll.AdvantageDie)
		}
		if !roll.HasAdvantage {
			t.Fatalf("seed %d: HasAdvantage not set", seed)
		}
		if want := roll.HopeDie + roll.FearDie + roll.AdvantageDie - 1; roll.Total != want {
			t.Fatalf("seed %d: total = %d, want %d", seed, roll.Total, want)
		}
	}
}

func TestRollDualityDeterministic(t *testing.T) {
	request := RollRequest{Modifier: 2, Advantage: true, Seed: 99}
	first := RollDuality(request)
	second := RollDuality(request)
	if first != second {
		t.Fatalf("rolls differ for same seed: %+v vs %+v", first, second)
	}
}

func TestControllingDie(t *testing.T) {
	tests := []struct {
		name string
		hope int
		fear int
		want ControllingDie
		crit bool
	}{
		{"hope wins", 10, 4, ControllingHope, false},
		{"fear wins", 3, 9, ControllingFear, false},
		{"tied", 7, 7, ControllingTied, true},
		{"tied at one", 1, 1, ControllingTied, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roll := Roll{HopeDie: tt.hope, FearDie: tt.fear}
			if got := roll.Controlling(); got != tt.want {
				t.Fatalf("controlling = %v, want %v", got, tt.want)
			}
			if got := roll.IsCritical(); got != tt.crit {
				t.Fatalf("critical = %v, want %v", got, tt.crit)
			}
		})
	}
}

func TestEvaluateTier(t *testing.T) {
	tests := []struct {
		name       string
		roll       Roll
		difficulty int
		want       Tier
	}{
		{"tied beats impossible difficulty", Roll{HopeDie: 2, FearDie: 2, Total: 4}, 30, TierCriticalSuccess},
		{"tied beats failure total", Roll{HopeDie: 1, FearDie: 1, Total: 2}, 10, TierCriticalSuccess},
		{"failure below difficulty", Roll{HopeDie: 3, FearDie: 5, Total: 8}, 12, TierFailure},
		{"hope success", Roll{HopeDie: 11, FearDie: 4, Total: 15}, 12, TierSuccessWithHope},
		{"fear success", Roll{HopeDie: 4, FearDie: 11, Total: 15}, 12, TierSuccessWithFear},
		{"exact difficulty succeeds", Roll{HopeDie: 8, FearDie: 4, Total: 12}, 12, TierSuccessWithHope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateTier(tt.roll, tt.difficulty); got != tt.want {
				t.Fatalf("tier = %v, want %v", got, tt.want)
			}
		})
	}
}

// The critical condition must hold across the entire 2d12 space: a roll is a
// critical success exactly when the dice are tied, no matter the difficulty.
func TestCriticalIffTied(t *testing.T) {
	for hope := 1; hope <= 12; hope++ {
		for fear := 1; fear <= 12; fear++ {
			roll := Roll{HopeDie: hope, FearDie: fear, Total: hope + fear}
			for _, difficulty := range []int{0, 10, 25} {
				tier := EvaluateTier(roll, difficulty)
				if (tier == TierCriticalSuccess) != (hope == fear) {
					t.Fatalf("hope=%d fear=%d difficulty=%d: tier=%v", hope, fear, difficulty, tier)
				}
			}
		}
	}
}

func TestTierEffects(t *testing.T) {
	tests := []struct {
		tier     Tier
		wantHope int
		wantFear int
	}{
		{TierCriticalSuccess, 0, 0},
		{TierSuccessWithHope, 1, 0},
		{TierSuccessWithFear, 0, 1},
		{TierFailure, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			hope, fear := TierEffects(tt.tier)
			if hope != tt.wantHope || fear != tt.wantFear {
				t.Fatalf("effects = (%d, %d), want (%d, %d)", hope, fear, tt.wantHope, tt.wantFear)
			}
		})
	}
}

func TestProficiencyBonus(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{1, 1}, {2, 1}, {3, 1},
		{4, 2}, {6, 2},
		{7, 3}, {9, 3},
		{10, 4}, {12, 4},
	}
	for _, tt := range tests {
		if got := ProficiencyBonus(tt.level); got != tt.want {
			t.Fatalf("ProficiencyBonus(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestParseRollType(t *testing.T) {
	tests := []struct {
		input string
		want  RollType
	}{
		{"Attack", RollAttack},
		{"spellcast", RollSpellcast},
		{"SAVE", RollSave},
		{"action", RollAction},
		{"", RollAction},
		{"unknown", RollAction},
	}
	for _, tt := range tests {
		if got := ParseRollType(tt.input); got != tt.want {
			t.Fatalf("ParseRollType(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if !RollAttack.UsesProficiency() || !RollSpellcast.UsesProficiency() {
		t.Fatal("attack and spellcast rolls must use proficiency")
	}
	if RollAction.UsesProficiency() || RollSave.UsesProficiency() {
		t.Fatal("action and save rolls must not use proficiency")
	}
}

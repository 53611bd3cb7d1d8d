package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"sync"

	"brawlsim/internal/arena"
	"brawlsim/internal/combat"
	"brawlsim/internal/config"
	"brawlsim/internal/util"
	"brawlsim/internal/watch"
)

type options struct {
	cfgDir   string
	out      string
	seed     int64
	n        int
	saveLog  bool
	teamA    string
	teamB    string
	maxTicks int
	workers  int
}

func main() {
	var o options
	var watchMode bool
	flag.StringVar(&o.cfgDir, "config", "assets", "config dir")
	flag.StringVar(&o.out, "out", "out.json", "output file (single) or summary file (batch)")
	flag.Int64Var(&o.seed, "seed", 0, "seed (0 uses battle.yaml)")
	flag.IntVar(&o.n, "n", 1, "number of simulations")
	flag.BoolVar(&o.saveLog, "log", true, "save full event log when n==1")
	flag.StringVar(&o.teamA, "a", "", `team A roster, e.g. "Black Bear:2,Chicken:10"`)
	flag.StringVar(&o.teamB, "b", "", "team B roster")
	flag.IntVar(&o.maxTicks, "max-ticks", 0, "tick cap (0 uses battle.yaml)")
	flag.IntVar(&o.workers, "workers", 8, "batch workers")
	flag.BoolVar(&watchMode, "watch", false, "rerun whenever a config file changes")
	flag.Parse()

	if err := run(o); err != nil {
		if !watchMode {
			log.Fatal(err)
		}
		log.Print(err)
	}
	if !watchMode {
		return
	}

	w, err := watch.New(o.cfgDir)
	if err != nil {
		log.Fatalf("watch %s: %v", o.cfgDir, err)
	}
	defer w.Close()
	log.Printf("watching %s for changes", o.cfgDir)
	for {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return
			}
			log.Printf("%s changed, rerunning", filepath.Base(name))
			if err := run(o); err != nil {
				log.Print(err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("watch: %v", err)
		}
	}
}

type scenario struct {
	book  *combat.Bestiary
	cfg   *config.BattleConfig
	input combat.SimInput
}

func load(o options) (*scenario, error) {
	creatures, battleCfg, err := config.LoadAll(o.cfgDir)
	if err != nil {
		return nil, err
	}
	book, err := combat.NewBestiary(creatures)
	if err != nil {
		return nil, err
	}
	if o.teamA != "" {
		if battleCfg.TeamA, err = config.ParseRoster(o.teamA); err != nil {
			return nil, err
		}
	}
	if o.teamB != "" {
		if battleCfg.TeamB, err = config.ParseRoster(o.teamB); err != nil {
			return nil, err
		}
	}
	if o.seed != 0 {
		battleCfg.Seed = o.seed
	}
	if o.maxTicks > 0 {
		battleCfg.MaxTicks = o.maxTicks
	}
	return &scenario{
		book: book,
		cfg:  battleCfg,
		input: combat.SimInput{
			TeamA:      battleCfg.TeamA,
			TeamB:      battleCfg.TeamB,
			MaxTicks:   battleCfg.MaxTicks,
			FrameEvery: battleCfg.FrameEvery,
			Note:       battleCfg.Note,
		},
	}, nil
}

func (s *scenario) simulate(seed int64, record bool) (combat.SimResult, error) {
	c := s.cfg
	env := &combat.Env{Delta: c.TickMs, Rng: util.New(seed)}
	space := arena.New(arena.Config{
		Width:  c.Arena.Width,
		Height: c.Arena.Height,
		Drag:   c.Arena.Drag,
		Cell:   c.Arena.Cell,
	})
	opts := combat.Options{
		SpeedMultiplier: c.SpeedMultiplier,
		Blood:           c.Blood,
		DeathGrace:      c.DeathGraceMs,
		ArenaWidth:      c.Arena.Width,
		ArenaHeight:     c.Arena.Height,
	}
	return combat.RunSingle(env, space, s.book, opts, s.input, record)
}

func run(o options) error {
	sc, err := load(o)
	if err != nil {
		return err
	}

	if o.n <= 1 {
		res, err := sc.simulate(sc.cfg.Seed, o.saveLog)
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.out, combat.MarshalPretty(res), 0644); err != nil {
			return err
		}
		winner := res.Winner
		if res.Draw {
			winner = "none"
		}
		log.Printf("Single battle finished. Winner=%s (%s), T=%.1fs, ticks=%d -> %s",
			winner, res.Sample, res.Duration/1000, res.Ticks, o.out)
		return nil
	}

	type stat struct {
		Wins      map[string]int
		Draws     int
		Timeouts  int
		SumT      float64
		Survivors map[string]int
		Damage    map[string]int
		Kills     map[string]int
		Errs      int
	}
	st := stat{
		Wins:      map[string]int{},
		Survivors: map[string]int{},
		Damage:    map[string]int{},
		Kills:     map[string]int{},
	}
	var mu sync.Mutex
	var firstErr error
	wg := sync.WaitGroup{}
	workers := o.workers
	if workers <= 0 {
		workers = 1
	}
	jobs := make(chan int, o.n)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := sc.simulate(sc.cfg.Seed+int64(i)*7919, false)

				mu.Lock()
				if err != nil {
					st.Errs++
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					continue
				}
				if res.Draw {
					st.Draws++
				} else {
					st.Wins[res.Winner]++
				}
				if res.Timeout {
					st.Timeouts++
				}
				st.SumT += res.Duration
				for team, byName := range res.Survivors {
					for _, c := range byName {
						st.Survivors[team] += c
					}
				}
				for k, v := range res.DamageByCreature {
					st.Damage[k] += v
				}
				for k, v := range res.KillsByCreature {
					st.Kills[k] += v
				}
				mu.Unlock()
			}
		}()
	}
	for i := 0; i < o.n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}

	runs := float64(o.n)
	winRate := map[string]float64{}
	avgSurvivors := map[string]float64{}
	for _, team := range []string{combat.TeamA.String(), combat.TeamB.String()} {
		winRate[team] = float64(st.Wins[team]) / runs
		avgSurvivors[team] = float64(st.Survivors[team]) / runs
	}
	summary := map[string]any{
		"runs":               o.n,
		"seed":               sc.cfg.Seed,
		"win_rate":           winRate,
		"draw_rate":          float64(st.Draws) / runs,
		"timeouts":           st.Timeouts,
		"avg_duration":       st.SumT / runs,
		"avg_survivors":      avgSurvivors,
		"damage_by_creature": st.Damage,
		"kills_by_creature":  st.Kills,
	}
	if err := os.WriteFile(o.out, combat.MarshalPretty(summary), 0644); err != nil {
		return err
	}
	log.Printf("Batch %d done -> %s", o.n, filepath.Base(o.out))
	return nil
}

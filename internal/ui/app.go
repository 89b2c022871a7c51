package ui

import (
	"fmt"
	"image/color"
	"math/rand"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"github.com/zmanna/rapid-math/internal/game"
)

const (
	ScreenW = 400
	ScreenH = 600
)

var digitKeys = []ebiten.Key{
	ebiten.Key0, ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4,
	ebiten.Key5, ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

// App renders a round in a window and feeds it keyboard input. The round is
// only ever touched from Update, so the single-threaded core needs no lock.
type App struct {
	round    *game.Round
	inputBuf string
	lastTick time.Time
}

func NewApp(rules game.Rules) *App {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &App{
		round:    game.NewRound(rules, rng),
		lastTick: time.Now(),
	}
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) { return ScreenW, ScreenH }

func (a *App) Update() error {
	now := time.Now()
	a.round.Tick(now.Sub(a.lastTick))
	a.lastTick = now

	switch {
	case a.round.GameOver():
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			a.round.Reset()
			a.inputBuf = ""
		}
	case !a.round.Running():
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			a.round.Start()
		}
	default:
		a.readAnswerKeys()
	}
	return nil
}

// readAnswerKeys captures digits, a leading minus, backspace and enter into
// the input buffer while the round is running.
func (a *App) readAnswerKeys() {
	for v, k := range digitKeys {
		if inpututil.IsKeyJustPressed(k) {
			a.inputBuf += strconv.Itoa(v)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) && len(a.inputBuf) == 0 {
		a.inputBuf = "-"
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(a.inputBuf) > 0 {
		a.inputBuf = a.inputBuf[:len(a.inputBuf)-1]
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyKPEnter) {
		a.round.Submit(a.inputBuf)
		a.inputBuf = ""
	}
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x20, 0x24, 0x2B, 0xFF})
	face := basicfont.Face7x13

	if a.round.GameOver() {
		text.Draw(screen, "Game Over", face, 40, 80, color.White)
		text.Draw(screen, fmt.Sprintf("Final Score: %d", a.round.Score()), face, 40, 120, color.White)
		text.Draw(screen, fmt.Sprintf("Correct Answers: %d", a.round.CorrectCount()), face, 40, 140, color.White)
		text.Draw(screen, fmt.Sprintf("Wrong Answers: %d", a.round.WrongCount()), face, 40, 160, color.White)
		text.Draw(screen, "Press R to restart", face, 40, 200, color.White)
		return
	}

	text.Draw(screen, "Math Quiz", face, 40, 40, color.White)
	text.Draw(screen, fmt.Sprintf("Time Remaining: %d seconds", int(a.round.Remaining()/time.Second)), face, 40, 80, color.White)
	text.Draw(screen, fmt.Sprintf("Score: %d", a.round.Score()), face, 40, 100, color.White)
	text.Draw(screen, a.round.Problem().Expression, face, 40, 150, color.White)
	text.Draw(screen, "Answer: "+a.inputBuf, face, 40, 180, color.White)
	text.Draw(screen, a.round.Feedback(), face, 40, 220, color.White)
	if !a.round.Running() {
		text.Draw(screen, "Press Enter or Space to start", face, 40, 260, color.White)
	}
}

// Run opens the window and blocks until it is closed.
func Run(rules game.Rules) error {
	ebiten.SetWindowSize(ScreenW, ScreenH)
	ebiten.SetWindowTitle("Math Quiz")
	return ebiten.RunGame(NewApp(rules))
}

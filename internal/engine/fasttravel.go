package engine

import (
	"github.com/vovakirdan/sneakbit/internal/world"
)

const tagFastTravel = "fast_travel"

// fastTravelMinVisited is how many destinations must be visited before the
// stations work.
const fastTravelMinVisited = 4

// FastTravelDestinations are the worlds with a fast travel station, in menu order.
var FastTravelDestinations = []world.ID{
	world.IDEvergrove,
	world.IDAridreach,
	world.IDDuskhaven,
	world.IDPeakLevel,
	world.IDMaritide,
	world.IDThermoria,
	world.IDVintoria,
}

var destinationTitles = map[world.ID]string{
	world.IDEvergrove: "world.evergrove",
	world.IDAridreach: "world.aridreach",
	world.IDDuskhaven: "world.duskhaven",
	world.IDPeakLevel: "world.peak_level",
	world.IDMaritide:  "world.maritide",
	world.IDThermoria: "world.thermoria",
	world.IDVintoria:  "world.vintoria",
}

func (e *Engine) visited(id world.ID) bool {
	return e.save.bool(keyWorldVisited(id))
}

// IsFastTravelAvailable reports whether enough destinations were visited.
func (e *Engine) IsFastTravelAvailable() bool {
	n := 0
	for _, id := range FastTravelDestinations {
		if e.visited(id) {
			n++
		}
	}
	return n >= fastTravelMinVisited
}

// FastTravelOptions appends the visited destinations other than the current
// world to dst.
func (e *Engine) FastTravelOptions(dst []world.ID) []world.ID {
	if !e.IsFastTravelAvailable() {
		return dst
	}
	current := e.CurrentWorldID()
	for _, id := range FastTravelDestinations {
		if id != current && e.visited(id) {
			dst = append(dst, id)
		}
	}
	return dst
}

func (e *Engine) requestFastTravel() {
	if e.fastTravelRequested {
		return
	}
	if !e.IsFastTravelAvailable() {
		e.showToast(world.ShowToast{Text: "fast_travel.unavailable", Mode: world.ToastHint})
		return
	}
	e.fastTravelRequested = true

	var options []menuOption
	for _, id := range e.FastTravelOptions(nil) {
		id := id
		options = append(options, menuOption{
			label:  e.strings.Localized(destinationTitles[id]),
			action: func(e *Engine) { e.fastTravel(id) },
		})
	}
	options = append(options, menuOption{
		label:  e.strings.Localized("menu.cancel"),
		action: func(e *Engine) { e.cancelFastTravel() },
	})
	e.showOptions(tagFastTravel, "fast_travel.menu.title", "fast_travel.menu.text", options, func(e *Engine) {
		e.cancelFastTravel()
	})
}

func (e *Engine) cancelFastTravel() {
	e.fastTravelRequested = false
	e.menus.closeOptions(tagFastTravel)
}

// fastTravel teleports to the station of dest, just below its link.
func (e *Engine) fastTravel(dest world.ID) {
	allowed := false
	for _, id := range e.FastTravelOptions(nil) {
		allowed = allowed || id == dest
	}
	e.cancelFastTravel()
	if !allowed {
		e.log.Warn("fast travel destination unavailable", "world", dest)
		return
	}

	target, err := e.worldByID(dest)
	if err != nil {
		e.log.Error("cannot load fast travel destination", "world", dest, "err", err)
		return
	}
	arrival := spawnOf(dest)
	if link, ok := target.FastTravelLinkFrame(); ok {
		arrival.X, arrival.Y = link.X+1, link.Y+link.H
	}
	e.previousWorld = target
	e.teleportOrLog(arrival, false)
}

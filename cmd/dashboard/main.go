//go:build js && wasm

// Command dashboard runs in the browser: it draws the chart and drives the
// map tooltip on the page served by cmd/server.
package main

import (
	"context"
	"energydash/internal/chart"
	"energydash/internal/dom"
	"energydash/internal/tooltip"
	"errors"
	"fmt"
	"log"
	"strconv"
	"syscall/js"

	"github.com/goccy/go-json"
)

var document = js.Global().Get("document")

type domTooltip struct {
	box   js.Value
	label js.Value
}

func (d domTooltip) SetPosition(left, top float64) {
	style := d.box.Get("style")
	style.Set("left", px(left))
	style.Set("top", px(top))
}

func (d domTooltip) SetLabel(text string) {
	d.label.Set("textContent", text)
}

func (d domTooltip) SetOpacity(o float64) {
	d.box.Get("style").Set("opacity", strconv.FormatFloat(o, 'f', -1, 64))
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

type domContainer struct{ el js.Value }

func (d domContainer) Rect() tooltip.Rect {
	r := d.el.Call("getBoundingClientRect")
	return tooltip.Rect{Left: r.Get("left").Float(), Top: r.Get("top").Float()}
}

type domRegion struct{ el js.Value }

func (d domRegion) ID() string { return d.el.Get("id").String() }

// OnHover keeps its js.Funcs for the page lifetime; regions are never
// unbound.
func (d domRegion) OnHover(enter func(tooltip.Point), leave func()) {
	d.el.Call("addEventListener", "mouseover", js.FuncOf(func(this js.Value, args []js.Value) any {
		e := args[0]
		enter(tooltip.Point{X: e.Get("clientX").Float(), Y: e.Get("clientY").Float()})
		return nil
	}))
	d.el.Call("addEventListener", "mouseleave", js.FuncOf(func(this js.Value, args []js.Value) any {
		leave()
		return nil
	}))
}

// chartJS constructs widgets through the global chart.js Chart class.
type chartJS struct{}

func (chartJS) NewChart(canvasID string, cfg chart.Config) error {
	canvas := document.Call("getElementById", canvasID)
	if canvas.IsNull() {
		return fmt.Errorf("canvas %q not found", canvasID)
	}
	ctor := js.Global().Get("Chart")
	if ctor.IsUndefined() {
		return errors.New("chart.js is not loaded")
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	ctor.New(canvas, js.Global().Get("JSON").Call("parse", string(b)))
	return nil
}

func mustElement(id string) js.Value {
	el := document.Call("getElementById", id)
	if el.IsNull() {
		panic("element #" + id + " not found")
	}
	return el
}

func bindTooltip() {
	ctl := tooltip.NewController(
		domTooltip{box: mustElement(dom.TooltipID), label: mustElement(dom.TooltipLabelID)},
		domContainer{el: mustElement(dom.MapContainerID)},
	)
	nodes := document.Call("querySelectorAll", dom.RegionSelector)
	regions := make([]tooltip.Region, 0, nodes.Length())
	for i := 0; i < nodes.Length(); i++ {
		regions = append(regions, domRegion{el: nodes.Index(i)})
	}
	ctl.Bind(regions)
}

func main() {
	bindTooltip()

	origin := js.Global().Get("location").Get("origin").String()
	r := chart.NewRenderer(chart.HTTPFetcher{URL: origin + "/api/chart/dataset"}, chartJS{}, dom.CanvasID)
	go func() {
		if err := r.Render(context.Background()); err != nil {
			log.Println("chart:", err)
		}
	}()

	select {}
}

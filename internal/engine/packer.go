package engine

import "github.com/piwi3910/BarCut/internal/model"

// piece is one cut instance expanded from a requirement's quantity.
type piece struct {
	identifier string
	length     float64
}

// openBar is a stock bar still accepting cuts. cursor is the end of the last
// cut; the next cut starts one kerf after it.
type openBar struct {
	id      int
	nominal float64
	cuts    []model.Cut
	cursor  float64
	special bool
}

func newOpenBar(id int, nominal float64) *openBar {
	return &openBar{id: id, nominal: nominal}
}

func (b *openBar) remaining() float64 {
	return b.nominal - b.cursor
}

// need returns the length a piece consumes on this bar. Kerf is charged only
// between cuts, never before the first one.
func (b *openBar) need(p piece, kerf float64) float64 {
	if len(b.cuts) == 0 {
		return p.length
	}
	return p.length + kerf
}

func (b *openBar) fits(p piece, kerf float64) bool {
	return b.remaining()+model.Epsilon >= b.need(p, kerf)
}

func (b *openBar) place(p piece, kerf float64) {
	start := b.cursor
	if len(b.cuts) > 0 {
		start += kerf
	}
	end := start + p.length
	b.cuts = append(b.cuts, model.Cut{
		Identifier: p.identifier,
		Length:     p.length,
		Start:      start,
		End:        end,
	})
	b.cursor = end
}

// finalize freezes the bar into its result form.
func (b *openBar) finalize(diameter int) model.StockBar {
	remaining := b.remaining()
	if remaining < model.Epsilon {
		remaining = 0
	}
	util := 0.0
	if b.nominal > 0 {
		util = (b.nominal - remaining) / b.nominal * 100.0
	}
	return model.StockBar{
		ID:            b.id,
		Diameter:      diameter,
		NominalLength: b.nominal,
		Cuts:          b.cuts,
		Remaining:     remaining,
		Utilization:   util,
		SpecialOrder:  b.special,
	}
}

// firstFitPacker places pieces into the first open bar with room, in bar
// creation order, opening a new standard bar when none fits.
type firstFitPacker struct {
	stockLength float64
	kerf        float64
	bars        []*openBar
}

func newFirstFitPacker(stockLength, kerf float64) *firstFitPacker {
	return &firstFitPacker{stockLength: stockLength, kerf: kerf}
}

func (p *firstFitPacker) insert(pc piece) {
	for _, b := range p.bars {
		if b.fits(pc, p.kerf) {
			b.place(pc, p.kerf)
			return
		}
	}
	b := newOpenBar(len(p.bars)+1, p.stockLength)
	b.place(pc, p.kerf)
	p.bars = append(p.bars, b)
}

// insertSpecial gives an oversized piece its own bar cut to the piece length.
func (p *firstFitPacker) insertSpecial(pc piece) {
	b := newOpenBar(len(p.bars)+1, pc.length)
	b.special = true
	b.place(pc, p.kerf)
	p.bars = append(p.bars, b)
}

package player

// Tick runs one playback step. It is called from the timer context and never
// re-enters itself.
func (p *Player) Tick() {
	p.ticks.Add(1)
	kind := p.cur.Load().Kind

	p.cs.Lock()
	v, ok := p.bank.Next(kind)
	p.cs.Unlock()

	if ok {
		p.emit(v)
	}
}

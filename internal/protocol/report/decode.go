package report

// Decode parses one response buffer into a Report. The decoder is
// deliberately permissive: each section decoder advances past what it
// recognizes and hands back control at the first byte it does not,
// because the format cannot distinguish an absent optional section from
// a malformed one.
func Decode(buf []byte) Report {
	if len(buf) == 0 {
		return Report{Unknown: true}
	}
	r := Report{Kind: buf[0]}
	if r.Kind != KindDebugTests {
		r.Unknown = true
		if len(buf) > 1 {
			r.Unparsed = append(r.Unparsed, buf[1:])
		}
		return r
	}

	d := decoder{buf: buf, pos: 1}
	d.derivation(&r)
	d.keyMatrix(&r)
	d.addrMatrix(&r)
	if d.pos < len(d.buf) {
		r.Unparsed = append(r.Unparsed, d.buf[d.pos:])
	}
	return r
}

type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) remaining() int { return len(d.buf) - d.pos }

func (d *decoder) peek() (byte, bool) {
	if d.pos >= len(d.buf) {
		return 0, false
	}
	return d.buf[d.pos], true
}

func (d *decoder) next() (byte, bool) {
	b, ok := d.peek()
	if ok {
		d.pos++
	}
	return b, ok
}

// take returns the next n bytes, or nil when the buffer has fewer left.
func (d *decoder) take(n int) []byte {
	if d.remaining() < n {
		return nil
	}
	out := d.buf[d.pos : d.pos+n]
	d.pos += n
	return out
}

// scanTo skips forward until one of the stop bytes, recording the span
// skipped. Returns the stop byte without consuming it, or false when
// the buffer ran out.
func (d *decoder) scanTo(r *Report, stops ...byte) (byte, bool) {
	start := d.pos
	for d.pos < len(d.buf) {
		b := d.buf[d.pos]
		for _, s := range stops {
			if b == s {
				if d.pos > start {
					r.Unparsed = append(r.Unparsed, d.buf[start:d.pos])
				}
				return b, true
			}
		}
		d.pos++
	}
	if d.pos > start {
		r.Unparsed = append(r.Unparsed, d.buf[start:d.pos])
	}
	return 0, false
}

func (d *decoder) derivation(r *Report) {
	b, ok := d.peek()
	if !ok || b != markDerivation {
		return
	}
	d.pos++

	dd := &DerivationDebug{}
	r.Derivation = dd

	if b, ok := d.peek(); ok && b == markDerivationD4 {
		d.pos++
		if flag, ok := d.next(); ok && flag == 0x01 {
			dd.Derived = true
			dd.RawKey = d.take(excerptLen)
			// One placeholder flag sits between the raw and clamped
			// excerpts on the wire.
			d.next()
			dd.Clamped = d.take(excerptLen)
			if pk, ok := d.next(); ok && pk == 0x01 {
				dd.PublicOK = true
				dd.Public = d.take(excerptLen)
			}
		}
	}

	// Resynchronize on the section terminator; the key matrix marker
	// doubles as "terminator missing, section over".
	if stop, ok := d.scanTo(r, markDerivationEnd, markKeyMatrix); ok && stop == markDerivationEnd {
		d.pos++
	}
}

func (d *decoder) keyMatrix(r *Report) {
	b, ok := d.peek()
	if !ok || b != markKeyMatrix {
		return
	}
	d.pos++

	m := &KeyMatrix{}
	r.KeyMatrix = m

	for {
		marker, ok := d.next()
		if !ok {
			return
		}
		if marker == markKeyMatrixEnd {
			m.Terminated = true
			return
		}
		if marker < MarkKeyOne || marker > MarkKeyFF {
			// Unannotated diagnostic byte: keep it visible and move on.
			r.Unparsed = append(r.Unparsed, d.buf[d.pos-1:d.pos])
			continue
		}
		res := KeyResult{Marker: marker}
		flag, ok := d.next()
		if !ok {
			m.Results = append(m.Results, res)
			return
		}
		if flag == 0x01 {
			res.Derived = true
			if match, ok := d.next(); ok {
				res.Match = match == 0x01
			}
		}
		m.Results = append(m.Results, res)
	}
}

func (d *decoder) addrMatrix(r *Report) {
	b, ok := d.peek()
	if !ok || b != markAddrMatrix {
		return
	}
	d.pos++

	m := &AddressMatrix{}
	r.Addresses = m

	for {
		marker, ok := d.next()
		if !ok {
			return
		}
		if marker == markAddrMatrixEnd {
			m.Terminated = true
			return
		}
		if marker < MarkAddrOne || marker > MarkAddrFF {
			r.Unparsed = append(r.Unparsed, d.buf[d.pos-1:d.pos])
			continue
		}
		res := AddressResult{Marker: marker}
		res.Mainnet = d.netResult()
		if b, ok := d.peek(); ok && !isAddrBoundary(b) {
			tn := d.netResult()
			res.Testnet = &tn
		}
		m.Results = append(m.Results, res)
	}
}

// netResult decodes one three-way network outcome. The mismatch debug
// payload (two length bytes plus an eight-byte excerpt) is optional and
// validated against the remaining buffer.
func (d *decoder) netResult() NetResult {
	flag, ok := d.next()
	if !ok {
		return NetResult{Outcome: OutcomeFail}
	}
	switch flag {
	case 0x01:
		return NetResult{Outcome: OutcomePass}
	case 0xFF:
		return NetResult{Outcome: OutcomeFail}
	}
	res := NetResult{Outcome: OutcomeMismatch}
	if lens := d.take(2); lens != nil {
		res.ActualLen = lens[0]
		res.ExpectedLen = lens[1]
		res.Excerpt = d.take(excerptLen)
	}
	return res
}

func isAddrBoundary(b byte) bool {
	return b == markAddrMatrixEnd || (b >= MarkAddrOne && b <= MarkAddrFF)
}

// Package lua runs DWIM narrowing strategies written in Lua.
//
// Scripts run in a sandboxed gopher-lua state: only the base, table,
// string and math libraries are open, file loading functions are removed
// and require only resolves the built-in safe modules. Every call into Lua
// runs under a deadline.
//
// # Strategies
//
// A script registers strategies with narrow.strategy:
//
//	narrow.strategy("fence", function(buf)
//	    local text = buf:text()
//	    local s = text:find("```", 1, true)
//	    if not s then
//	        return nil
//	    end
//	    local first = buf:visible()
//	    return first + s - 1, first + #text
//	end)
//
// The function receives the document and returns one of:
//
//	nil or false     the strategy does not apply
//	start, end       narrow to [start, end)
//	true             the strategy narrowed the document itself
//
// Offsets are zero-based byte offsets into the whole document. A function
// that narrows through buf:narrow or buf:op and returns nothing also
// counts as applied.
//
// # Buffer API
//
//	buf:id()                 document id
//	buf:point()              cursor offset
//	buf:len()                document length
//	buf:mode()               document mode
//	buf:visible()            start, end of the visible region
//	buf:selection()          start, end of the active selection, or nil
//	buf:text([start, end])   visible text, or a slice of it
//	buf:narrow(start, end)   run narrow-to-region
//	buf:op(name)             run a host operation; false if no unit at point
//
// narrow.log(msg) writes to the editor log.
package lua

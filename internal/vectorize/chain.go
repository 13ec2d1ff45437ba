package vectorize

// chunkSize bounds the quadratic consecutivity search to a fixed window: a
// cost ceiling, not a correctness requirement, so a block with thousands of
// candidate ops doesn't make chain discovery quadratic in the block size.
const chunkSize = 64

// chain is an ordered run of same-kind memory ops, all sharing an
// underlying object, believed consecutive.
type chain struct {
	ops []memOp
}

// buildChains runs the chain search over one bundle's ordered op list (all
// loads, or all stores), chunked to chunkSize, and returns every maximal
// chain of length >= 2 discovered. vectorized is consulted mid-walk as an
// "already rewritten" sentinel, so a chain that passes through an op
// recorded there before this call is truncated there rather than reused.
// The map is only read here: chains returned by one call may share
// members, and the Driver skips any such chain once one of its members has
// been rewritten.
func buildChains(ops []memOp, oracle *consecutivityOracle, vectorized map[interface{}]bool) []*chain {
	var chains []*chain
	for start := 0; start < len(ops); start += chunkSize {
		end := start + chunkSize
		if end > len(ops) {
			end = len(ops)
		}
		chains = append(chains, buildChainsInChunk(ops[start:end], oracle, vectorized)...)
	}
	return chains
}

// buildChainsInChunk finds, for each op in the chunk, its best consecutive
// successor (preferring the nearest candidate on ties), then walks the
// resulting successor graph from every head (an op with a successor that is
// itself nobody's successor) to collect maximal runs.
func buildChainsInChunk(ops []memOp, oracle *consecutivityOracle, vectorized map[interface{}]bool) []*chain {
	n := len(ops)
	succ := make([]int, n)
	for i := range succ {
		succ[i] = -1
	}
	heads := make([]bool, n)
	tails := make([]bool, n)

	for i := 0; i < n; i++ {
		for j := n - 1; j >= 0; j-- {
			if i == j {
				continue
			}
			if !oracle.consecutive(ops[i], ops[j]) {
				continue
			}
			if succ[i] != -1 {
				prior := succ[i]
				if j < i || abs(prior-i) > abs(prior-j) {
					continue // keep the nearer candidate already recorded
				}
			}
			succ[i] = j
			tails[j] = true
			heads[i] = true
		}
	}

	var chains []*chain
	for i := 0; i < n; i++ {
		if !heads[i] || tails[i] {
			continue
		}
		var run []memOp
		cur := i
		// succ is a functional forward mapping over n nodes; bounding the
		// walk at n steps guards against a malformed oracle reporting a
		// cycle instead of panicking or looping forever.
		for steps := 0; cur != -1 && steps < n; steps++ {
			if vectorized[ops[cur].inst] {
				break
			}
			run = append(run, ops[cur])
			cur = succ[cur]
		}
		if len(run) >= 2 {
			chains = append(chains, &chain{ops: run})
		}
	}
	return chains
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

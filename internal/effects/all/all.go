// Package all registers every bundled effect.
package all

import (
	_ "canvas-designs/internal/effects/follow"
	_ "canvas-designs/internal/effects/ghost"
	_ "canvas-designs/internal/effects/gridboxes"
	_ "canvas-designs/internal/effects/meshgrid"
	_ "canvas-designs/internal/effects/orb"
	_ "canvas-designs/internal/effects/plasma"
	_ "canvas-designs/internal/effects/proton"
	_ "canvas-designs/internal/effects/rings"
	_ "canvas-designs/internal/effects/sphere"
	_ "canvas-designs/internal/effects/swarm"
	_ "canvas-designs/internal/effects/wave"
)

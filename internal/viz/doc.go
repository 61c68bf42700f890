// Package viz draws a running spring bone world in the terminal.
//
// [Model] is a Bubble Tea program that steps an experiment at 60Hz and
// renders bones and collider spheres on a braille [Canvas] seen through an
// orbiting [Camera].
//
// # Key Bindings
//
//	Space   - Pause/Resume
//	g / G   - Lower/raise gravity power
//	s / S   - Lower/raise stiffness
//	r       - Deactivate and reactivate every chain
//	arrows  - Orbit the camera
//	+ / -   - Zoom
//	q       - Quit
//
// With a config watcher attached, saving the config file reactivates every
// chain with the file's chain parameters.
package viz

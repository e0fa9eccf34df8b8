// Package postprocess tidies downloaded artifacts: it strips upload noise
// such as "(Official Video)" from titles and renames files accordingly.
package postprocess

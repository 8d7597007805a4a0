// Package domain defines the core business entities of the card
// generation pipeline: card records, template definitions, export
// artifacts, and the warnings produced while repairing model output.
package domain

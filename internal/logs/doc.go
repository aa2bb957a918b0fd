// Package logs reads the JSON log file exifdeck writes under its state
// directory. It backs the "exifdeck logs" command: Last returns the newest
// matching lines with bounded memory and Follow polls for lines appended
// afterwards. Filters select lines by structured fields such as job_id.
package logs

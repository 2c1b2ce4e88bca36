// Command zovida is the medication-safety CLI: scan prescriptions, check
// drug combinations, manage reminders and appointments, and chat with the
// health assistant.
package main

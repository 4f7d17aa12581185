package hero

// Player-facing action labels. These appear on reply keyboards and come
// back verbatim as commands.
const (
	ActionTravel = "Travel"
	ActionLeave  = "Leave"
	ActionShop   = "Shop"
	ActionHeal   = "Heal"
)

// Player-facing message formats
const (
	MsgWelcome    = "Welcome, %s"
	MsgWhatPath   = "What's your path?"
	MsgCantDoHere = "You can't do %s from here"
	MsgWhereTo    = "Where do you want to go?"
	MsgCantTravel = "You can't travel to %s from here"
	MsgNoWayOut   = "There is no way out of here"
	MsgDidntGetIt = "I didn't understand you"

	MsgRecovering = "Your hero is recovering now... Return back in %d seconds"
	MsgRecovered  = "Your hero recovered!"
	MsgFullHealth = "You are already at full health"

	MsgEncountered = "You have encountered %s"
	MsgQuietArea   = "The area seems quiet"
	MsgHitMob      = "You hit %s with %d dmg"
	MsgMobHits     = "%s hits you with %d dmg"
	MsgGuardBlock  = "You block next attack with a shield"
	MsgKilledMob   = "You killed %s"
	MsgLoot        = "You got %s"
	MsgDied        = "You were killed by %s\nRespawn in %d secs"
	MsgFled        = "You ran in fear."
	MsgRespawned   = "You respawned in %s!"
	MsgHPStatus    = "Your HP: %d\n%s HP: %d"

	MsgShopPrompt  = "You have %d gold. What do you want?"
	MsgBought      = "You bought '%s'"
	MsgSold        = "You sold '%s'"
	MsgNoStock     = "Shop has no item '%s'"
	MsgNoMoney     = "You don't have enough money for '%s'"
	MsgItemUnknown = "Cannot find item '%s'"
	MsgNotOwned    = "You don't have '%s'"

	MsgNothingToCancel  = "There's nothing to cancel"
	MsgCantCancelFight  = "Can't cancel a fight"
	MsgStoppedResting   = "You stopped resting"
	MsgDeadRespawnIn    = "Your hero is dead. Respawn in %d seconds"
	MsgHealingRemaining = "Your hero is recovering. Ready in %d seconds"

	MsgInventoryEmpty = "Your inventory is empty"
)

// Cache configuration for the chat-to-hero mapping
const (
	CacheSize = 4096
)

package entity

// ObjectID identifies the emitter a sound is attached to.
type ObjectID uint64

// Emitters used by the game.
const (
	GameObject     ObjectID = 1
	ShipObject     ObjectID = 2
	AsteroidObject ObjectID = 4
)

// PlayingID identifies one playing instance of a sound event. Zero means
// "all instances of the event on the object".
type PlayingID uint64

// Sound event names.
const (
	SoundTitleMusic     = "TitleMusic"
	SoundGameMusic      = "GameMusic"
	SoundThrust         = "Thrust"
	SoundShoot          = "Shoot"
	SoundShield         = "Shield"
	SoundPause          = "Pause"
	SoundCollision      = "Collision"
	SoundExplosion      = "Explosion"
	SoundBigAsteroid    = "BigAsteroid"
	SoundMediumAsteroid = "MediumAsteroid"
	SoundSmallAsteroid  = "SmallAsteroid"
	SoundPowerUp        = "PowerUp"
)

// PanningParameter is the positional parameter name, set to the emitter's
// x coordinate before a sound plays.
const PanningParameter = "PanningX"

// AudioSink receives fire-and-forget sound events. It is handed to every
// call that can make a sound; entities never keep a reference to it.
type AudioSink interface {
	PlayEvent(event string, obj ObjectID) PlayingID
	PauseEvent(event string, obj ObjectID, id PlayingID)
	ResumeEvent(event string, obj ObjectID, id PlayingID)
	StopEvent(event string, obj ObjectID, id PlayingID)
	SetPositionalParameter(obj ObjectID, x float64)
}

// NopAudio discards every event.
type NopAudio struct{}

func (NopAudio) PlayEvent(string, ObjectID) PlayingID { return 0 }
func (NopAudio) PauseEvent(string, ObjectID, PlayingID) {}
func (NopAudio) ResumeEvent(string, ObjectID, PlayingID) {}
func (NopAudio) StopEvent(string, ObjectID, PlayingID) {}
func (NopAudio) SetPositionalParameter(ObjectID, float64) {}

// playAt sets the panning parameter for obj to x and plays event.
func playAt(audio AudioSink, event string, obj ObjectID, x float64) PlayingID {
	audio.SetPositionalParameter(obj, x)
	return audio.PlayEvent(event, obj)
}

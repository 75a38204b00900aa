/*
Package los implements the line-of-sight geometric model core for an
Earth-observation satellite ground processing system (Landsat-class
OLI/TIRS imagery).

Given an image pixel coordinate (line, sample) within a specific
detector/SCA/band and a target elevation, the forward projection
(InputLineSampToGeodetic) computes the geodetic latitude/longitude on the
Earth's surface that the pixel observes, accounting for spacecraft
ephemeris, attitude, sensor geometry, Earth rotation, precession,
nutation, polar motion, light travel time, velocity aberration, and
center-of-mass offsets.

The package is organized around the component boundaries of the source
system: EarthOrientation, Ephemeris/Attitude interpolation, SensorModel,
the forward ProjectionPipeline, BpfModel (bias parameter calibration
data), and the L0R ancillary/image schema. The underlying HDF5-like
table store and the GCTP projection math are treated as external
collaborators behind small interfaces (AncillaryStore,
ProjectionTransformer); NOVAS astronomical routines are likewise an
opaque facade (NovasAdapter).
*/
package los
